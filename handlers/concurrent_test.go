// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/when-works/models"
	"github.com/danielhkuo/when-works/testutil"
)

// TestConcurrentVoteSubmissions verifies that simultaneous submissions from
// different voters all land and the voter count stays consistent.
func TestConcurrentVoteSubmissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg, &recordingDispatcher{})

	appointmentID, _, shareToken := testutil.CreateTestAppointment(t, db, cfg, models.MethodMaxAvailable, 0)

	numVoters := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			voteReq := models.SubmitVotesRequest{
				Name: "ConcurrentVoter" + string(rune('A'+voterIdx)),
				Units: []models.TimeUnit{
					models.DateUnit("2026-09-01"),
					models.DateUnit("2026-09-02"),
				},
			}
			body, _ := json.Marshal(voteReq)
			req := httptest.NewRequest("POST", "/appointments/"+shareToken+"/votes", bytes.NewReader(body))
			req.SetPathValue("token", shareToken)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.SubmitVotes(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	var voterCount int
	err := db.QueryRow("SELECT COUNT(*) FROM voter WHERE appointment_id = $1", appointmentID).Scan(&voterCount)
	if err != nil {
		t.Fatalf("Failed to count voters: %v", err)
	}
	if voterCount != numVoters {
		t.Errorf("Expected %d voters in database, got %d", numVoters, voterCount)
	}

	var voteCount int
	err = db.QueryRow("SELECT COUNT(*) FROM vote WHERE appointment_id = $1", appointmentID).Scan(&voteCount)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != numVoters*2 {
		t.Errorf("Expected %d votes in database, got %d", numVoters*2, voteCount)
	}
}

// TestConcurrentQuorumNotifiesOnce verifies the at-most-once notification
// guard: many submissions crossing the quorum at the same time produce
// exactly one dispatched notification and one queue row.
func TestConcurrentQuorumNotifiesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	dispatcher := &recordingDispatcher{}
	handler := NewVotingHandler(db, cfg, dispatcher)

	// Quorum of 1: every concurrent submission sees it reached
	appointmentID, _, shareToken := testutil.CreateTestAppointment(t, db, cfg, models.MethodAllAvailable, 1)
	testutil.SetCreatorContact(t, db, appointmentID, "organizer@example.com")

	numVoters := 8
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			voteReq := models.SubmitVotesRequest{
				Name:  "RacingVoter" + string(rune('A'+voterIdx)),
				Units: []models.TimeUnit{models.DateUnit("2026-09-01")},
			}
			body, _ := json.Marshal(voteReq)
			req := httptest.NewRequest("POST", "/appointments/"+shareToken+"/votes", bytes.NewReader(body))
			req.SetPathValue("token", shareToken)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.SubmitVotes(w, req)
		}(i)
	}

	wg.Wait()

	if dispatcher.count() != 1 {
		t.Errorf("Expected exactly 1 dispatched notification, got %d", dispatcher.count())
	}

	if n := testutil.CountNotifications(t, db, appointmentID, ""); n != 1 {
		t.Errorf("Expected exactly 1 notification queue row, got %d", n)
	}

	var sent bool
	if err := db.QueryRow("SELECT notification_sent FROM appointment WHERE id = $1", appointmentID).Scan(&sent); err != nil {
		t.Fatalf("Failed to query notification flag: %v", err)
	}
	if !sent {
		t.Error("Expected notification_sent flag set")
	}
}

// TestParallelAppointments verifies that operations on different
// appointments don't interfere.
func TestParallelAppointments(t *testing.T) {
	t.Parallel()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cache := newTestCache(t)
	appointmentHandler := NewAppointmentHandler(db, cfg, cache)
	votingHandler := NewVotingHandler(db, cfg, &recordingDispatcher{})

	numAppointments := 5
	var wg sync.WaitGroup

	for i := 0; i < numAppointments; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			createReq := models.CreateAppointmentRequest{
				Title:                "Parallel Appointment " + string(rune('A'+idx)),
				Method:               models.MethodMaxAvailable,
				RequiredParticipants: 3,
			}
			body, _ := json.Marshal(createReq)
			req := httptest.NewRequest("POST", "/appointments", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			appointmentHandler.Create(w, req)

			if w.Code != http.StatusCreated {
				t.Errorf("Appointment %d creation failed: %d", idx, w.Code)
				return
			}

			var createResp models.CreateAppointmentResponse
			json.NewDecoder(w.Body).Decode(&createResp)

			voteReq := models.SubmitVotesRequest{
				Name:  "Voter" + string(rune('A'+idx)),
				Units: []models.TimeUnit{models.DateUnit("2026-09-01")},
			}
			body, _ = json.Marshal(voteReq)
			req = httptest.NewRequest("POST", "/appointments/"+createResp.ShareToken+"/votes", bytes.NewReader(body))
			req.SetPathValue("token", createResp.ShareToken)
			req.Header.Set("Content-Type", "application/json")
			w = httptest.NewRecorder()
			votingHandler.SubmitVotes(w, req)

			if w.Code != http.StatusCreated {
				t.Errorf("Appointment %d vote failed: %d", idx, w.Code)
			}
		}(i)
	}

	wg.Wait()

	var appointmentCount int
	err := db.QueryRow("SELECT COUNT(*) FROM appointment").Scan(&appointmentCount)
	if err != nil {
		t.Fatalf("Failed to count appointments: %v", err)
	}
	if appointmentCount != numAppointments {
		t.Errorf("Expected %d appointments, got %d", numAppointments, appointmentCount)
	}

	var voterCount int
	err = db.QueryRow("SELECT COUNT(*) FROM voter").Scan(&voterCount)
	if err != nil {
		t.Fatalf("Failed to count voters: %v", err)
	}
	if voterCount != numAppointments {
		t.Errorf("Expected %d voters, got %d", numAppointments, voterCount)
	}
}
