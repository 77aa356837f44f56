package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/util"
)

const testSecret = "middleware-test-secret"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:mw_%s?mode=memory&cache=shared",
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

func testRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret, db), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	})
	return r
}

func seedUser(t *testing.T, db *gorm.DB, active bool) *models.User {
	t.Helper()
	user := &models.User{
		Name: "Test User", Email: "t@college.edu", Phone: "9876500000",
		PasswordHash: "x", Role: models.RoleStudent, Dept: "CSE", Year: "2nd",
		IsActive: active,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	r := testRouter(testDB(t))

	w := get(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if got := message(t, w); got != "No Bearer token" {
		t.Errorf("message = %q, want No Bearer token", got)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, true)
	r := testRouter(db)

	token, err := util.GenerateToken(testSecret, user.ID, user.Role, user.Dept, user.Email, -time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	w := get(r, token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if got := message(t, w); got != "Token expired - login again" {
		t.Errorf("message = %q, want Token expired - login again", got)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, true)
	r := testRouter(db)

	// signed with a different secret
	token, err := util.GenerateToken("wrong-secret", user.ID, user.Role, user.Dept, user.Email, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	w := get(r, token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if got := message(t, w); got != "Invalid token" {
		t.Errorf("message = %q, want Invalid token", got)
	}

	// garbage token
	w = get(r, "garbage")
	if got := message(t, w); got != "Invalid token" {
		t.Errorf("garbage token message = %q, want Invalid token", got)
	}
}

func TestAuthMiddleware_InactiveOrMissingUser(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, false) // inactive
	r := testRouter(db)

	token, err := util.GenerateToken(testSecret, user.ID, user.Role, user.Dept, user.Email, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	w := get(r, token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if got := message(t, w); got != "User inactive" {
		t.Errorf("message = %q, want User inactive", got)
	}

	// token for an id with no record behaves the same
	ghost, err := util.GenerateToken(testSecret, 9999, "student", "CSE", "g@college.edu", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	w = get(r, ghost)
	if got := message(t, w); got != "User inactive" {
		t.Errorf("missing user message = %q, want User inactive", got)
	}
}

func TestAuthMiddleware_Success(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, true)
	r := testRouter(db)

	token, err := util.GenerateToken(testSecret, user.ID, user.Role, user.Dept, user.Email, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	w := get(r, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if uint(body["id"].(float64)) != user.ID {
		t.Errorf("attached id = %v, want %d", body["id"], user.ID)
	}
}

func TestAuthMiddleware_QueryTokenFallback(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, true)
	r := testRouter(db)

	token, err := util.GenerateToken(testSecret, user.ID, user.Role, user.Dept, user.Email, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
