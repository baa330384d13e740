// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openagora/agora-server/auth"
	"github.com/openagora/agora-server/cliparse"
	"github.com/openagora/agora-server/db"
	"github.com/openagora/agora-server/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each test gets its own database, so no cleanup is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// :memory: databases are per-connection; keep the pool at one so
	// every statement sees the same database
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3414,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		AdminKeySalt:     "test-admin-salt",
		IPHashSalt:       "test-ip-salt",
		WikipediaBaseURL: cliparse.DefaultWikipediaBaseURL,
	}
}

// PollParams tweaks the poll created by CreateTestPoll. Zero values
// produce an active single-choice poll with unauthenticated voting on.
type PollParams struct {
	QuestionType        string
	Status              string
	Kind                string
	DisallowAnonymous   bool
	AllowUserAddOptions bool
	Deadline            *time.Time
}

// CreateTestPoll inserts a poll and returns it along with its admin key.
func CreateTestPoll(t *testing.T, conn *sql.DB, cfg cliparse.Config, params PollParams) (models.Poll, string) {
	t.Helper()

	if params.QuestionType == "" {
		params.QuestionType = models.TypeSingleChoice
	}
	if params.Status == "" {
		params.Status = models.StatusActive
	}
	if params.Kind == "" {
		params.Kind = models.KindSimple
	}

	pollID, _ := auth.GenerateID(16)
	adminKey := auth.GenerateAdminKey(pollID, cfg.AdminKeySalt)

	poll := models.Poll{
		ID:                   pollID,
		Question:             "Test question?",
		Description:          "A test poll",
		QuestionType:         params.QuestionType,
		Kind:                 params.Kind,
		Status:               params.Status,
		AllowUnauthenticated: !params.DisallowAnonymous,
		AllowUserAddOptions:  params.AllowUserAddOptions,
		Deadline:             params.Deadline,
		CreatedAt:            time.Now(),
	}

	_, err := conn.Exec(`
		INSERT INTO poll (id, question, description, question_type, kind, status, allow_unauthenticated, allow_user_add_options, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, poll.ID, poll.Question, poll.Description, poll.QuestionType, poll.Kind,
		poll.Status, poll.AllowUnauthenticated, poll.AllowUserAddOptions, poll.Deadline, poll.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return poll, adminKey
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID string, position int, text string) string {
	t.Helper()

	optionID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO poll_option (id, poll_id, position, text)
		VALUES ($1, $2, $3, $4)
	`, optionID, pollID, position, text)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// CreateTestLocation inserts a location record and returns its ID.
func CreateTestLocation(t *testing.T, conn *sql.DB, name, wikipediaTitle string) string {
	t.Helper()

	locationID := auth.NewRowID()
	_, err := conn.Exec(`
		INSERT INTO location (id, name, wikipedia_title, created_at)
		VALUES ($1, $2, $3, $4)
	`, locationID, name, wikipediaTitle, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test location: %v", err)
	}

	return locationID
}

// CountVotes returns the number of vote rows stored for a poll.
func CountVotes(t *testing.T, conn *sql.DB, pollID string) int {
	t.Helper()

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM poll_vote WHERE poll_id = $1`, pollID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return count
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
