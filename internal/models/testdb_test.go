package models

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory database named after the test so parallel
// tests never share state.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// a single connection keeps the in-memory database alive
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&User{}, &Event{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func studentInput() RegisterInput {
	return RegisterInput{
		Name:       "Asha Verma",
		Email:      "asha@college.edu",
		Password:   "secret123",
		Role:       RoleStudent,
		Phone:      "9876543210",
		Dept:       "CSE",
		Year:       "2nd",
		RollNumber: "CSE301234",
	}
}

func facultyInput() RegisterInput {
	return RegisterInput{
		Name:        "Prof Rao",
		Email:       "rao@college.edu",
		Password:    "secret123",
		Role:        RoleFaculty,
		Phone:       "9123456789",
		Dept:        "CSE",
		Designation: "Assistant Professor",
	}
}
