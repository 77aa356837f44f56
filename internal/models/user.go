package models

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/util"
)

// Roles.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// Departments offered by the college. The empty string is not a valid
// department for a user (it is for events, where it means "all").
var Departments = []string{
	"CSE", "ECE", "CE", "CIVIL", "ME", "MECHANICAL", "AI", "EE", "BS", "BASIC SCIENCES",
}

// StudentYears a student can be enrolled in.
var StudentYears = []string{"1st", "2nd", "3rd", "4th"}

// User represents a student, faculty member or admin account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	Email        string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:32;uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;index;not null;default:student" json:"role"`
	Dept         string    `gorm:"size:32;index;not null" json:"dept"`
	Year         string    `gorm:"size:16" json:"year,omitempty"`             // students only
	RollNumber   string    `gorm:"size:10;index" json:"rollNumber,omitempty"` // students only, unique when set
	Designation  string    `gorm:"size:50" json:"designation,omitempty"`      // faculty only
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsFaculty() bool { return u.Role == RoleFaculty }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }

// AuthJSON is the public projection of a user returned by auth endpoints.
func (u *User) AuthJSON() map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"role":        u.Role,
		"dept":        u.Dept,
		"year":        u.Year,
		"rollNumber":  u.RollNumber,
		"phone":       u.Phone,
		"designation": u.Designation,
		"isActive":    u.IsActive,
	}
}

// RegisterInput carries the raw registration fields before normalization.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	Phone       string
	Dept        string
	Year        string
	RollNumber  string
	Designation string
}

// normalize trims and case-folds fields the same way on every path so
// the unique indexes see canonical values.
func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(in.Email)), " ", "")
	in.Phone = strings.TrimSpace(in.Phone)
	in.Dept = strings.ToUpper(strings.TrimSpace(in.Dept))
	in.RollNumber = strings.ToUpper(strings.TrimSpace(in.RollNumber))
	in.Designation = strings.TrimSpace(in.Designation)
	in.Year = strings.TrimSpace(in.Year)
	if in.Role == "" {
		in.Role = RoleStudent
	}
	// role-conditional fields never leak across roles
	if in.Role != RoleStudent {
		in.Year = ""
		in.RollNumber = ""
	}
	if in.Role != RoleFaculty {
		in.Designation = ""
	}
}

func (in *RegisterInput) validate() error {
	if in.Name == "" || in.Email == "" || len(in.Password) < 6 {
		return &ValidationError{Msg: "Name, email, and password (min 6 chars) required"}
	}
	if len(in.Name) > 50 {
		return &ValidationError{Msg: "Name too long"}
	}
	if !util.ValidEmail(in.Email) {
		return &ValidationError{Msg: "Enter valid email"}
	}
	if in.Phone == "" {
		return &ValidationError{Msg: "Phone required"}
	}
	if in.Role != RoleStudent && in.Role != RoleFaculty && in.Role != RoleAdmin {
		return &ValidationError{Msg: "Invalid role"}
	}
	if in.Dept == "" || !contains(Departments, in.Dept) {
		return &ValidationError{Msg: "Department required"}
	}
	if in.Role == RoleStudent {
		if in.Year == "" || !contains(StudentYears, in.Year) {
			return &ValidationError{Msg: "Year required for students"}
		}
		if in.RollNumber != "" && !util.ValidRollNumber(in.RollNumber) {
			return &ValidationError{Msg: "6-10 uppercase letters + numbers (e.g. CSE301234)"}
		}
	}
	if in.Role == RoleFaculty {
		if in.Designation == "" {
			return &ValidationError{Msg: "Designation required for faculty"}
		}
		if len(in.Designation) > 50 {
			return &ValidationError{Msg: "Designation too long"}
		}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// CreateUser validates, checks duplicates in fixed priority order
// (email, then phone, then roll number) and inserts the new account with
// a bcrypt hash of the password. Duplicate email matching is
// case-insensitive; normalization keeps stored emails lowercase anyway.
func CreateUser(db *gorm.DB, in RegisterInput, bcryptCost int) (*User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	// fixed priority keeps the reported field deterministic
	checks := []struct {
		field string
		query string
		value string
	}{
		{"Email", "LOWER(email) = LOWER(?)", in.Email},
		{"Phone", "phone = ?", in.Phone},
	}
	if in.RollNumber != "" {
		checks = append(checks, struct {
			field string
			query string
			value string
		}{"Roll number", "roll_number = ?", in.RollNumber})
	}
	for _, chk := range checks {
		var count int64
		if err := db.Model(&User{}).Where(chk.query, chk.value).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &DuplicateError{Field: chk.field}
		}
	}

	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         in.Role,
		Dept:         in.Dept,
		Year:         in.Year,
		RollNumber:   in.RollNumber,
		Designation:  in.Designation,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByCredentials resolves a user by email + password. Unknown email and
// wrong password both return ErrNotFound so callers cannot tell them apart.
func FindByCredentials(db *gorm.DB, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user User
	if err := db.Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	return &user, nil
}

// FindUserByID loads one user or ErrNotFound.
func FindUserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the old password and stores a bcrypt hash of the
// new one. The hash cost matches registration.
func ChangePassword(db *gorm.DB, user *User, oldPassword, newPassword string, bcryptCost int) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return &ValidationError{Msg: "Current password is incorrect"}
	}
	if len(newPassword) < 6 {
		return &ValidationError{Msg: "Password too short"}
	}
	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return nil
}
