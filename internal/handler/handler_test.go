package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/middleware"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"
)

const (
	testSecret   = "handler-test-secret"
	testTTLHours = 7 * 24
	testBcrypt   = 4 // minimum cost keeps the suite fast
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler_%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Event{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// testApp wires the API routes the same way the router package does.
func testApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testDB(t)
	r := gin.New()
	api := r.Group("/api")

	authHandler := NewAuthHandler(db, testSecret, testTTLHours, testBcrypt)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/check-unique", authHandler.CheckUnique)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(testSecret, db))
	protected.GET("/auth/me", authHandler.GetMe)
	protected.GET("/users/me", authHandler.GetMe)
	protected.POST("/users/password", ChangePassword(db, testBcrypt))

	eventHandler := NewEventHandler(db)
	protected.GET("/events", eventHandler.ListEvents)
	protected.GET("/events/mine", eventHandler.MyEvents)
	protected.GET("/events/dashboard", eventHandler.Dashboard)
	protected.POST("/events", eventHandler.CreateEvent)
	protected.PUT("/events/:id", eventHandler.UpdateEvent)
	protected.DELETE("/events/:id", eventHandler.DeleteEvent)
	protected.POST("/events/:id/make-personal", eventHandler.MakePersonal)

	exportHandler := NewExportHandler(db)
	protected.GET("/events/export/csv", exportHandler.ExportCSV)
	protected.GET("/events/export/xlsx", exportHandler.ExportXLSX)
	protected.GET("/events/export/ics", exportHandler.ExportICS)

	return r, db
}

func doJSON(r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func studentPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":       "Asha Verma",
		"email":      "asha@college.edu",
		"password":   "secret123",
		"role":       "student",
		"phone":      "9876543210",
		"dept":       "CSE",
		"year":       "2nd",
		"rollNumber": "CSE301234",
	}
}

func facultyPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Prof Rao",
		"email":       "rao@college.edu",
		"password":    "secret123",
		"role":        "faculty",
		"phone":       "9123456789",
		"dept":        "CSE",
		"designation": "Assistant Professor",
	}
}

// registerVia registers through the API and returns the bearer token.
func registerVia(t *testing.T, r *gin.Engine, payload map[string]interface{}) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/auth/register", "", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func eventCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Event{}).Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	return count
}
