package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/middleware"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/util"
)

// AuthHandler serves registration, login and the current-user endpoints.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 7 * 24
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

func (h *AuthHandler) signToken(u *models.User) (string, error) {
	return util.GenerateToken(h.JWTSecret, u.ID, u.Role, u.Dept, u.Email, h.TokenTTL)
}

// ---------- register ----------

type registerReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	Dept        string `json:"dept"`
	Year        string `json:"year"`
	RollNumber  string `json:"rollNumber"`
	Designation string `json:"designation"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := models.CreateUser(h.DB, models.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Phone:       req.Phone,
		Dept:        req.Dept,
		Year:        req.Year,
		RollNumber:  req.RollNumber,
		Designation: req.Designation,
	}, h.BcryptCost)
	if err != nil {
		var ve *models.ValidationError
		var de *models.DuplicateError
		switch {
		case errors.As(err, &ve), errors.As(err, &de):
			util.Error(c, http.StatusBadRequest, err.Error())
		default:
			util.Error(c, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Registration failed")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"message": "Registration successful",
		"token":   token,
		"user":    user.AuthJSON(),
	})
}

// ---------- login ----------

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Email and password required")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		util.Error(c, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := models.FindByCredentials(h.DB, req.Email, req.Password)
	if err != nil {
		// unknown email and wrong password are indistinguishable
		if errors.Is(err, models.ErrNotFound) {
			util.Error(c, http.StatusUnauthorized, "Invalid email or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "Server error")
		}
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Server error")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message": "Login successful",
		"token":   token,
		"user":    user.AuthJSON(),
	})
}

// ---------- current user ----------

// GetMe handles GET /api/auth/me and GET /api/users/me. The account is
// re-read so a deleted user sees 404 even with a live token.
func (h *AuthHandler) GetMe(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "No Bearer token")
		return
	}

	user, err := models.FindUserByID(h.DB, current.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "User not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "Server error")
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"user": user.AuthJSON(),
	})
}

// ---------- uniqueness probe ----------

var uniqueFields = map[string]string{
	"name":       "name",
	"email":      "email",
	"phone":      "phone",
	"rollNumber": "roll_number",
}

// CheckUnique handles GET /api/auth/check-unique?field=email&value=x.
// Case-insensitive existence probe used by the registration form.
func (h *AuthHandler) CheckUnique(c *gin.Context) {
	field := c.Query("field")
	value := strings.TrimSpace(c.Query("value"))

	if field == "" || value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"exists": false, "message": "Field and value required"})
		return
	}
	column, ok := uniqueFields[field]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"exists": false, "message": "Invalid field"})
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER("+column+") = LOWER(?)", value).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"exists": false, "message": "Server error"})
		return
	}

	msg := "Available"
	if count > 0 {
		msg = field + " already taken"
	}
	c.JSON(http.StatusOK, gin.H{"exists": count > 0, "message": msg})
}
