// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Bensagra/meirim-backend/cliparse"
	appdb "github.com/Bensagra/meirim-backend/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// Each call gets its own database, so tests never see each other's rows.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A shared-cache memory database lives as long as one connection is open.
	// A single connection also serializes writes the way the handlers expect.
	db.SetMaxOpenConns(1)

	if err := appdb.CreateSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
	}
}

// CreateTestQuestion creates a question and returns its ID
func CreateTestQuestion(t *testing.T, db *sql.DB, prompt string, active, locked bool) string {
	t.Helper()

	questionID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO question (id, prompt, display_order, active, locked, created_at)
		VALUES ($1, $2, 0, $3, $4, $5)
	`, questionID, prompt, active, locked, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return questionID
}

// AddTestOption adds an option at the given position and returns the option ID
func AddTestOption(t *testing.T, db *sql.DB, questionID, label string, position int) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO question_option (id, question_id, label, position)
		VALUES ($1, $2, $3, $4)
	`, optionID, questionID, label, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// SubmitTestAnswer inserts an answer row directly and returns its ID
func SubmitTestAnswer(t *testing.T, db *sql.DB, questionID, voterID, text string) string {
	t.Helper()

	answerID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO answer (id, question_id, voter_id, text, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, answerID, questionID, voterID, text, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}

	return answerID
}

// CreateTestCategory creates a nomination category and returns its ID
func CreateTestCategory(t *testing.T, db *sql.DB, name string, active bool) string {
	t.Helper()

	categoryID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO nomination_category (id, name, description, active, display_order)
		VALUES ($1, $2, '', $3, 0)
	`, categoryID, name, active)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return categoryID
}

// CreateTestNominee creates a nominee and returns its ID
func CreateTestNominee(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	nomineeID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO nominee (id, name) VALUES ($1, $2)
	`, nomineeID, name)
	if err != nil {
		t.Fatalf("Failed to create test nominee: %v", err)
	}

	return nomineeID
}

// CastTestVote inserts a nomination row directly and returns its ID
func CastTestVote(t *testing.T, db *sql.DB, categoryID, nomineeID, voterID string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO nomination (id, category_id, nominee_id, voter_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, categoryID, nomineeID, voterID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// CreateTestCamper creates a camper and returns its ID
func CreateTestCamper(t *testing.T, db *sql.DB, name, dni string) string {
	t.Helper()

	camperID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO camper (id, name, surname, email, dni)
		VALUES ($1, $2, '', '', $3)
	`, camperID, name, dni)
	if err != nil {
		t.Fatalf("Failed to create test camper: %v", err)
	}

	return camperID
}

// CreateTestActivity creates an activity for the given date and returns its ID
func CreateTestActivity(t *testing.T, db *sql.DB, date, status string) string {
	t.Helper()

	activityID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO activity (id, activity_date, status, notes, created_at)
		VALUES ($1, $2, $3, '', $4)
	`, activityID, date, status, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test activity: %v", err)
	}

	return activityID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
