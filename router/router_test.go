// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/when-works/handlers"
	"github.com/danielhkuo/when-works/models"
	"github.com/danielhkuo/when-works/notify"
	"github.com/danielhkuo/when-works/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cache, _ := handlers.NewResultsCache(16)
	mux := NewRouter(db, cfg, notify.LogDispatcher{}, cache)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cache, _ := handlers.NewResultsCache(16)
	mux := NewRouter(db, cfg, notify.LogDispatcher{}, cache)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "when-works API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cache, _ := handlers.NewResultsCache(16)
	mux := NewRouter(db, cfg, notify.LogDispatcher{}, cache)

	// Handlers may return 400/401/404 for these synthetic paths; only a 405
	// would mean the route itself is missing.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/appointments"},
		{"DELETE", "/appointments/test-id"},
		{"GET", "/appointments/public"},

		{"POST", "/appointments/test-token/votes"},
		{"GET", "/appointments/test-token"},
		{"GET", "/appointments/test-token/results"},
		{"GET", "/appointments/test-token/participation"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestPublicListingDoesNotShadowTokenLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cache, _ := handlers.NewResultsCache(16)
	mux := NewRouter(db, cfg, notify.LogDispatcher{}, cache)

	appointmentID, _, shareToken := testutil.CreateTestAppointment(t, db, cfg, models.MethodAllAvailable, 3)
	if _, err := db.Exec(`UPDATE appointment SET is_public = TRUE WHERE id = $1`, appointmentID); err != nil {
		t.Fatalf("Failed to mark appointment public: %v", err)
	}

	// The literal /appointments/public route serves the listing
	req := httptest.NewRequest("GET", "/appointments/public", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from public listing, got %d", w.Code)
	}

	// The wildcard still resolves real tokens
	req = httptest.NewRequest("GET", "/appointments/"+shareToken, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from token lookup, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp models.AppointmentWithVoters
	testutil.AssertJSON(t, w, &resp)
	if resp.Appointment.ID != appointmentID {
		t.Errorf("Expected appointment %s, got %s", appointmentID, resp.Appointment.ID)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cache, _ := handlers.NewResultsCache(16)
	mux := NewRouter(db, cfg, notify.LogDispatcher{}, cache)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"PUT", "/appointments/test-token/votes"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}
