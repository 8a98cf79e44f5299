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

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/when-works/auth"
	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/db"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// A single connection keeps the in-memory database alive and serializes
// writers the way the production postgres setup does per-row. Foreign keys
// are switched on so ON DELETE CASCADE behaves like postgres.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3320,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
		BaseURL:      "http://localhost:3320",
	}
}

// CreateTestAppointment inserts an appointment and returns its ID, admin key
// and share token. Method-specific fields beyond requiredParticipants can be
// adjusted with a direct UPDATE in the test.
func CreateTestAppointment(t *testing.T, conn *sql.DB, cfg cliparse.Config, method string, requiredParticipants int) (appointmentID, adminKey, shareToken string) {
	t.Helper()

	appointmentID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(appointmentID, cfg.AdminKeySalt)
	shareToken, _ = auth.GenerateShareToken()

	weeklyMeetings := 0
	if method == "recurring" {
		weeklyMeetings = 1
	}

	_, err := conn.Exec(`
		INSERT INTO appointment (id, share_token, title, method, required_participants,
			weekly_meetings, is_public, notification_sent, created_at)
		VALUES ($1, $2, 'Test Appointment', $3, $4, $5, $6, $7, $8)
	`, appointmentID, shareToken, method, requiredParticipants, weeklyMeetings, false, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test appointment: %v", err)
	}

	return appointmentID, adminKey, shareToken
}

// SetCreatorContact sets the appointment's notification recipient.
func SetCreatorContact(t *testing.T, conn *sql.DB, appointmentID, contact string) {
	t.Helper()

	_, err := conn.Exec(`UPDATE appointment SET creator_contact = $1 WHERE id = $2`, contact, appointmentID)
	if err != nil {
		t.Fatalf("Failed to set creator contact: %v", err)
	}
}

// SubmitTestVotes inserts a voter with votes for the given unit keys and
// returns the voter ID. Bypasses the HTTP layer.
func SubmitTestVotes(t *testing.T, conn *sql.DB, appointmentID, name string, unitKeys []string) string {
	t.Helper()

	voterID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO voter (id, appointment_id, name, voted_at)
		VALUES ($1, $2, $3, $4)
	`, voterID, appointmentID, name, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	for _, key := range unitKeys {
		_, err := conn.Exec(`
			INSERT INTO vote (voter_id, appointment_id, unit_key)
			VALUES ($1, $2, $3)
		`, voterID, appointmentID, key)
		if err != nil {
			t.Fatalf("Failed to create test vote: %v", err)
		}
	}

	return voterID
}

// CountNotifications returns the number of notification_queue rows for an
// appointment, optionally filtered by status ("" means any).
func CountNotifications(t *testing.T, conn *sql.DB, appointmentID, status string) int {
	t.Helper()

	var count int
	var err error
	if status == "" {
		err = conn.QueryRow(`
			SELECT COUNT(*) FROM notification_queue WHERE appointment_id = $1
		`, appointmentID).Scan(&count)
	} else {
		err = conn.QueryRow(`
			SELECT COUNT(*) FROM notification_queue WHERE appointment_id = $1 AND status = $2
		`, appointmentID, status).Scan(&count)
	}
	if err != nil {
		t.Fatalf("Failed to count notifications: %v", err)
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
