package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/middleware"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/policy"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/util"
)

// ExportHandler renders the caller's visible calendar as downloadable
// CSV, XLSX or iCalendar files.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) visibleEvents(c *gin.Context) ([]models.Event, *models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return nil, nil, false
	}
	events, err := policy.VisibleEvents(h.DB, user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Server error loading events")
		return nil, nil, false
	}
	return events, user, true
}

// ExportCSV handles GET /api/events/export/csv.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	events, _, ok := h.visibleEvents(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"events_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so Excel opens the file correctly
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Title", "Type", "Department", "Year", "Location", "Start", "End", "Global"})

	for _, e := range events {
		writer.Write([]string{
			e.Title,
			e.Type,
			e.Dept,
			e.Year,
			e.Location,
			e.Start.Format(time.RFC3339),
			e.End.Format(time.RFC3339),
			strconv.FormatBool(e.IsGlobal),
		})
	}
}

// ExportXLSX handles GET /api/events/export/xlsx.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	events, _, ok := h.visibleEvents(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Events"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Export failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Title", "Type", "Department", "Year", "Location", "Start", "End", "Global"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx, e := range events {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Dept)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Year)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Location)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), e.Start.Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), e.End.Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), e.IsGlobal)
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "E", 14)
	f.SetColWidth(sheetName, "F", "G", 18)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"events_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "Export failed")
	}
}

// ExportICS handles GET /api/events/export/ics: a standard iCalendar feed
// importable into Google Calendar, Outlook etc.
func (h *ExportHandler) ExportICS(c *gin.Context) {
	events, _, ok := h.visibleEvents(c)
	if !ok {
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Smart Academic Calendar//EN")

	for _, e := range events {
		uid := fmt.Sprintf("event-%d@smart-academic-calendar", e.ID)
		ve := cal.AddEvent(uid)
		ve.SetCreatedTime(e.CreatedAt)
		ve.SetDtStampTime(e.UpdatedAt)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.End)
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		desc := e.Type
		if e.Dept != "" {
			desc += " · " + e.Dept
		}
		if e.Year != "" {
			desc += " · " + e.Year
		}
		ve.SetDescription(desc)
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"events_%s.ics\"",
		time.Now().Format("20060102")))
	c.String(http.StatusOK, cal.Serialize())
}
