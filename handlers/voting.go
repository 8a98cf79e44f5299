// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/middleware"
	"github.com/danielhkuo/when-works/models"
	"github.com/danielhkuo/when-works/notify"
	"github.com/danielhkuo/when-works/schedule"
)

type VotingHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	notifier notify.Dispatcher
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, notifier notify.Dispatcher) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, notifier: notifier}
}

// SubmitVotes handles POST /appointments/{token}/votes
//
// Each submission creates a fresh voter with their availability marks.
// Submissions never overwrite earlier ones; correcting a vote means
// submitting again, and both count toward the participation tally.
func (h *VotingHandler) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "share token is required")
		return
	}

	var req models.SubmitVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Units) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one unit is required")
		return
	}

	appt, err := getAppointmentByToken(h.db, token)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if err != nil {
		slog.Error("failed to load appointment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if appt.Deadline != nil && time.Now().After(*appt.Deadline) {
		middleware.ErrorResponse(w, http.StatusConflict, "Voting deadline has passed")
		return
	}

	units, errMsg := validateUnits(appt, req.Units)
	if errMsg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, errMsg)
		return
	}

	voterID := uuid.NewString()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO voter (id, appointment_id, name, voted_at)
		VALUES ($1, $2, $3, $4)
	`, voterID, appt.ID, req.Name, time.Now())
	if err != nil {
		slog.Error("failed to insert voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record votes")
		return
	}

	for _, u := range units {
		_, err = tx.Exec(`
			INSERT INTO vote (voter_id, appointment_id, unit_key)
			VALUES ($1, $2, $3)
		`, voterID, appt.ID, u.Key())
		if err != nil {
			slog.Error("failed to insert vote", "unit", u.Key(), "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record votes")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record votes")
		return
	}

	slog.Info("votes recorded", "appointment_id", appt.ID, "voter_id", voterID, "units", len(units))

	participation, err := h.checkCompletion(appt)
	if err != nil {
		// The vote itself has committed. Participation could not be determined,
		// which is distinct from "not complete" - report the failure.
		slog.Error("failed to evaluate completion", "appointment_id", appt.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Votes recorded but participation check failed")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVotesResponse{
		VoterID:       voterID,
		Message:       "Votes recorded",
		Participation: participation,
	})
}

// validateUnits checks every submitted unit against the appointment's method
// and date bounds, and drops duplicates. Returns a non-empty message on the
// first invalid unit.
func validateUnits(appt models.Appointment, units []models.TimeUnit) ([]models.TimeUnit, string) {
	seen := make(map[string]bool, len(units))
	out := make([]models.TimeUnit, 0, len(units))

	for _, u := range units {
		if err := u.Validate(); err != nil {
			return nil, "invalid unit: " + err.Error()
		}

		if appt.Method == models.MethodRecurring {
			if u.Kind == models.UnitDate {
				return nil, "recurring appointments take weekday units, not dates"
			}
		} else {
			if u.Kind != models.UnitDate {
				return nil, "this appointment takes date units"
			}
			if appt.StartDate != nil && u.Date < *appt.StartDate {
				return nil, "date " + u.Date + " is before the appointment window"
			}
			if appt.EndDate != nil && u.Date > *appt.EndDate {
				return nil, "date " + u.Date + " is after the appointment window"
			}
		}

		key := u.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out, ""
}

// checkCompletion re-counts voters, evaluates the quorum and fires the
// completion notification when this submission crossed it.
//
// The conditional UPDATE on notification_sent is the at-most-once guard:
// under concurrent submissions every goroutine may see the quorum reached,
// but only the one whose UPDATE flips the flag dispatches.
func (h *VotingHandler) checkCompletion(appt models.Appointment) (models.CompletionStatus, error) {
	voterCount, err := countVoters(h.db, appt.ID)
	if err != nil {
		return models.CompletionStatus{}, err
	}

	comp := schedule.EvaluateCompletion(voterCount, appt.RequiredParticipants, appt.NotificationSent)
	status := models.CompletionStatus{
		IsComplete:           comp.IsComplete,
		CurrentVoters:        voterCount,
		RequiredParticipants: appt.RequiredParticipants,
		NotificationSent:     appt.NotificationSent,
	}

	if !comp.ShouldNotify {
		return status, nil
	}

	res, err := h.db.Exec(`
		UPDATE appointment
		SET notification_sent = TRUE
		WHERE id = $1 AND notification_sent = FALSE
	`, appt.ID)
	if err != nil {
		return models.CompletionStatus{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.CompletionStatus{}, err
	}

	// Either way the flag is set now.
	status.NotificationSent = true

	if affected == 0 {
		// Lost the race: another submission already claimed the notification.
		return status, nil
	}

	if appt.CreatorContact == nil || *appt.CreatorContact == "" {
		slog.Info("appointment complete, creator left no contact",
			"appointment_id", appt.ID, "voters", voterCount)
		return status, nil
	}

	err = notify.SendCompletion(h.db, h.notifier, notify.Payload{
		AppointmentID: appt.ID,
		Title:         appt.Title,
		ShareToken:    appt.ShareToken,
		Recipient:     *appt.CreatorContact,
		MessageType:   models.MessageTypeComplete,
	})
	if err != nil {
		// Recorded as failed on the queue row; the vote succeeded, so the
		// submission still gets a success response.
		slog.Warn("completion notification failed", "appointment_id", appt.ID, "error", err)
	}

	return status, nil
}
