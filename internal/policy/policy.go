// Package policy decides who can see and mutate which calendar events.
package policy

import (
	"gorm.io/gorm"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"
)

// StudentDeptYearMatch reports whether the event falls inside a student's
// department + year scope. This deliberately ignores the global flag and
// ownership: a matching dept/year pulls the event into the student's view
// even when it is someone else's personal event. That mirrors the dashboard
// behavior the app shipped with; keep it isolated here so it can be
// tightened in one place.
func StudentDeptYearMatch(u *models.User, e *models.Event) bool {
	return u.IsStudent() && e.Dept == u.Dept && e.Year == u.Year
}

// Visible reports whether a single event is visible to the user: global
// events, the user's own events, and (for students) dept/year matches.
func Visible(u *models.User, e *models.Event) bool {
	if e.IsGlobal || e.CreatedBy == u.ID {
		return true
	}
	return StudentDeptYearMatch(u, e)
}

// VisibleEvents returns all events visible to the user, ascending by start
// time. The WHERE clause is the query form of Visible.
func VisibleEvents(db *gorm.DB, u *models.User) ([]models.Event, error) {
	q := db.Where("is_global = ? OR created_by = ?", true, u.ID)
	if u.IsStudent() {
		q = db.Where("is_global = ? OR created_by = ? OR (dept = ? AND year = ?)",
			true, u.ID, u.Dept, u.Year)
	}

	var events []models.Event
	if err := q.Order("start ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CanCreateGlobal reports whether the user may create campus-wide events.
func CanCreateGlobal(u *models.User) bool {
	return u.IsFaculty()
}

// CheckMutate decides whether the user may edit or delete the event.
// verb is "edit" or "delete" and only affects the error message. Global
// events are faculty-only; personal events are owner-only.
func CheckMutate(u *models.User, e *models.Event, verb string) error {
	if e.IsGlobal {
		if !u.IsFaculty() {
			return &models.ForbiddenError{Msg: "Only faculty " + verb + " global events"}
		}
		return nil
	}
	if e.CreatedBy != u.ID {
		return &models.ForbiddenError{Msg: "Cannot " + verb + " this event"}
	}
	return nil
}

// AllowGlobalPromotion reports whether an update may flip a personal event
// to global. Only faculty may promote; every other isGlobal change in an
// update payload is ignored.
func AllowGlobalPromotion(u *models.User, e *models.Event, requested bool) bool {
	return requested && !e.IsGlobal && u.IsFaculty()
}
