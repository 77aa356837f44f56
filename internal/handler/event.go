package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/middleware"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/policy"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/util"
)

// EventHandler serves the calendar-event endpoints.
type EventHandler struct {
	DB *gorm.DB
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{DB: db}
}

func parseEventID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// ---------- list ----------

// ListEvents handles GET /api/events: global events, the caller's own
// events and (for students) dept/year matches, ascending by start.
func (h *EventHandler) ListEvents(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return
	}

	events, err := policy.VisibleEvents(h.DB, user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Server error loading events")
		return
	}

	util.Success(c, http.StatusOK, util.Response{"events": events})
}

// MyEvents handles GET /api/events/mine: strictly createdBy = caller.
func (h *EventHandler) MyEvents(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return
	}

	events, err := models.ListEventsBy(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Server error loading your events")
		return
	}

	util.Success(c, http.StatusOK, util.Response{"events": events})
}

// Dashboard handles GET /api/events/dashboard with compound filters:
// ?dept=&type=&year=&includeGlobal=&includePersonal=
func (h *EventHandler) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return
	}

	filter := models.EventFilter{
		Dept: c.Query("dept"),
		Type: c.Query("type"),
		Year: c.Query("year"),
	}

	global := []models.Event{}
	personal := []models.Event{}
	var err error

	if c.Query("includeGlobal") == "true" {
		global, err = models.ListGlobalEvents(h.DB, filter)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "Server error loading events")
			return
		}
	}
	if c.Query("includePersonal") == "true" {
		personal, err = models.ListPersonalEvents(h.DB, user.ID, filter)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "Server error loading events")
			return
		}
	}

	all := append(append([]models.Event{}, global...), personal...)
	util.Success(c, http.StatusOK, util.Response{
		"global":   global,
		"personal": personal,
		"all":      all,
	})
}

// ---------- create ----------

type createEventReq struct {
	Title      string `json:"title"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Type       string `json:"type"`
	Dept       string `json:"dept"`
	Year       string `json:"year"`
	Location   string `json:"location"`
	IsReminder bool   `json:"isReminder"`
	IsGlobal   bool   `json:"isGlobal"`
}

// CreateEvent handles POST /api/events. Events are personal by default;
// only faculty may set the global flag.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return
	}

	var req createEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Title, start, and end required")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Start == "" || req.End == "" {
		util.Error(c, http.StatusBadRequest, "Title, start, and end required")
		return
	}

	start, err := util.ParseEventTime(req.Start)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid start time")
		return
	}
	end, err := util.ParseEventTime(req.End)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid end time")
		return
	}

	if req.IsGlobal && !policy.CanCreateGlobal(user) {
		util.Error(c, http.StatusForbidden, "Only faculty create global events")
		return
	}

	if req.Type == "" {
		req.Type = "meeting"
	}
	if req.Year == "" {
		req.Year = "All Years"
	}

	event := models.Event{
		Title:      req.Title,
		Start:      start,
		End:        end,
		Type:       req.Type,
		Dept:       req.Dept,
		Year:       req.Year,
		Location:   req.Location,
		IsReminder: req.IsReminder,
		IsGlobal:   policy.CanCreateGlobal(user) && req.IsGlobal,
		CreatedBy:  user.ID,
	}
	if err := h.DB.Create(&event).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Server error creating event")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "Event created",
		"event":   event,
	})
}

// ---------- update ----------

type updateEventReq struct {
	Title      *string `json:"title"`
	Start      *string `json:"start"`
	End        *string `json:"end"`
	Type       *string `json:"type"`
	Dept       *string `json:"dept"`
	Year       *string `json:"year"`
	Location   *string `json:"location"`
	IsReminder *bool   `json:"isReminder"`
	IsGlobal   *bool   `json:"isGlobal"`
}

// UpdateEvent handles PUT /api/events/:id. Partial update, last write wins.
// Direct isGlobal changes are ignored except the faculty-only promotion of
// a personal event to global.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return
	}

	id, ok := parseEventID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, "Event not found")
		return
	}
	event, err := models.FindEventByID(h.DB, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Event not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Server error updating event")
		}
		return
	}

	if err := policy.CheckMutate(user, event, "edit"); err != nil {
		util.Error(c, http.StatusForbidden, err.Error())
		return
	}

	var req updateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			util.Error(c, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		event.Title = title
	}
	if req.Start != nil {
		start, err := util.ParseEventTime(*req.Start)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid start time")
			return
		}
		event.Start = start
	}
	if req.End != nil {
		end, err := util.ParseEventTime(*req.End)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid end time")
			return
		}
		event.End = end
	}
	if req.Type != nil {
		event.Type = *req.Type
	}
	if req.Dept != nil {
		event.Dept = *req.Dept
	}
	if req.Year != nil {
		event.Year = *req.Year
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.IsReminder != nil {
		event.IsReminder = *req.IsReminder
	}
	if req.IsGlobal != nil && policy.AllowGlobalPromotion(user, event, *req.IsGlobal) {
		event.IsGlobal = true
	}

	if err := h.DB.Save(event).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Server error updating event")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message": "Event updated",
		"event":   event,
	})
}

// ---------- delete ----------

// DeleteEvent handles DELETE /api/events/:id.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return
	}

	id, ok := parseEventID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, "Event not found")
		return
	}
	event, err := models.FindEventByID(h.DB, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Event not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Server error deleting event")
		}
		return
	}

	if err := policy.CheckMutate(user, event, "delete"); err != nil {
		util.Error(c, http.StatusForbidden, err.Error())
		return
	}

	if err := h.DB.Delete(event).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Server error deleting event")
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "Event deleted"})
}

// ---------- make personal ----------

// MakePersonal handles POST /api/events/:id/make-personal: clones a global
// event into a personal reminder owned by the caller. Any authenticated
// user may copy any global event.
func (h *EventHandler) MakePersonal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return
	}

	id, ok := parseEventID(c)
	if !ok {
		util.Error(c, http.StatusNotFound, "Global event not found")
		return
	}
	event, err := models.FindEventByID(h.DB, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Global event not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Server error creating personal copy")
		}
		return
	}
	if !event.IsGlobal {
		util.Error(c, http.StatusNotFound, "Global event not found")
		return
	}

	personal := event.PersonalCopy(user.ID)
	if err := h.DB.Create(personal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Server error creating personal copy")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "Personal copy created",
		"event":   personal,
	})
}
