// Package testutil holds helpers shared by package tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/isdelr/habit-tracker-be/internal/database"
	"golang.org/x/crypto/bcrypt"
)

// SetupTestDB opens a fresh SQLite database in a temporary directory with the
// full schema applied. It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

// CreateTestUser inserts an account and returns its ID.
func CreateTestUser(t *testing.T, db *sql.DB, email, password string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	res, err := db.Exec("INSERT INTO users (email, password) VALUES (?, ?)", email, string(hash))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// CreateTestHabit inserts a daily habit owned by userID and returns its ID.
func CreateTestHabit(t *testing.T, db *sql.DB, userID int64, name string) int64 {
	t.Helper()

	res, err := db.Exec("INSERT INTO habits (user_id, name) VALUES (?, ?)", userID, name)
	if err != nil {
		t.Fatalf("Failed to create test habit: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// CountRows returns the number of rows in table matching where.
func CountRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()

	var n int
	query := "SELECT count(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
