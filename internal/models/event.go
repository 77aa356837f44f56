package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Event types matching the frontend dropdown.
var EventTypes = []string{
	"exam", "class", "assignment", "holiday", "workshop", "meeting",
	"placement", "event", "other",
}

// EventDepartments an event can be scoped to. Empty means all departments.
var EventDepartments = []string{
	"", "CSE", "ECE", "Civil", "Mechanical", "AI", "EE", "Basic Sciences",
}

// EventYears an event can be scoped to: cohorts or batch years.
var EventYears = []string{
	"All Years", "1st Year", "2nd Year", "3rd Year", "4th Year",
	"2023", "2024", "2025", "2026", "2027",
}

// Event is a calendar entry, campus-wide (IsGlobal) or personal.
type Event struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Start      time.Time `gorm:"index:idx_events_start_year_dept,priority:1;not null" json:"start"`
	End        time.Time `gorm:"not null" json:"end"`
	Type       string    `gorm:"size:16;index:idx_events_type_dept,priority:1;not null;default:other" json:"type"`
	Dept       string    `gorm:"size:32;index:idx_events_start_year_dept,priority:3;index:idx_events_type_dept,priority:2" json:"dept"`
	Year       string    `gorm:"size:16;index:idx_events_start_year_dept,priority:2;default:'All Years'" json:"year"`
	Location   string    `gorm:"size:255" json:"location"`
	IsGlobal   bool      `gorm:"index:idx_events_global_owner,priority:1;not null" json:"isGlobal"`
	IsReminder bool      `gorm:"not null" json:"isReminder"`
	CreatedBy  uint      `gorm:"index:idx_events_global_owner,priority:2;not null" json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FindEventByID loads one event or ErrNotFound.
func FindEventByID(db *gorm.DB, id uint) (*Event, error) {
	var event Event
	if err := db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// EventFilter narrows dashboard queries. Zero values mean "no filter".
type EventFilter struct {
	Dept string
	Type string
	Year string
}

func (f EventFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Dept != "" {
		q = q.Where("dept = ?", f.Dept)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Year != "" {
		q = q.Where("year = ?", f.Year)
	}
	return q
}

// ListGlobalEvents returns global events matching the filter, ascending by
// start time.
func ListGlobalEvents(db *gorm.DB, f EventFilter) ([]Event, error) {
	var events []Event
	q := f.apply(db.Where("is_global = ?", true))
	if err := q.Order("start ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListPersonalEvents returns the owner's personal events matching the
// filter, ascending by start time.
func ListPersonalEvents(db *gorm.DB, ownerID uint, f EventFilter) ([]Event, error) {
	var events []Event
	q := f.apply(db.Where("is_global = ? AND created_by = ?", false, ownerID))
	if err := q.Order("start ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListEventsBy returns events created by the given user, ascending by start
// time, regardless of global flag.
func ListEventsBy(db *gorm.DB, ownerID uint) ([]Event, error) {
	var events []Event
	if err := db.Where("created_by = ?", ownerID).Order("start ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// PersonalCopy clones a global event into a new personal reminder owned by
// ownerID. The clone gets a fresh id; every other field carries over.
func (e *Event) PersonalCopy(ownerID uint) *Event {
	dup := *e
	dup.ID = 0
	dup.IsGlobal = false
	dup.IsReminder = true
	dup.CreatedBy = ownerID
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}
	return &dup
}
