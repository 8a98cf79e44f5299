// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/when-works/middleware"
	"github.com/danielhkuo/when-works/models"
	"github.com/danielhkuo/when-works/schedule"
)

type ResultsHandler struct {
	db    *sql.DB
	cache *ResultsCache
}

func NewResultsHandler(db *sql.DB, cache *ResultsCache) *ResultsHandler {
	return &ResultsHandler{db: db, cache: cache}
}

// Get handles GET /appointments/{token}
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

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

	voterCount, err := countVoters(h.db, appt.ID)
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AppointmentWithVoters{
		Appointment:   appt,
		CurrentVoters: voterCount,
	})
}

// GetResults handles GET /appointments/{token}/results
//
// Rankings are cached per appointment and recomputed whenever the vote or
// voter count moved since the cached entry was built.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

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

	voterCount, err := countVoters(h.db, appt.ID)
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var voteCount int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM vote WHERE appointment_id = $1
	`, appt.ID).Scan(&voteCount)
	if err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	results, ok := h.cache.Get(appt.ID, voteCount, voterCount)
	if !ok {
		tally, err := h.tallyVotes(appt.ID)
		if err != nil {
			slog.Error("failed to tally votes", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		results, err = schedule.Calculate(schedule.CalcInput{
			Method:               appt.Method,
			Tally:                tally,
			TotalVoters:          voterCount,
			RequiredParticipants: appt.RequiredParticipants,
			WeeklyMeetings:       appt.WeeklyMeetings,
		})
		if err != nil {
			slog.Error("failed to calculate results", "appointment_id", appt.ID, "method", appt.Method, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to calculate results")
			return
		}

		h.cache.Put(appt.ID, voteCount, voterCount, results)
	}

	comp := schedule.EvaluateCompletion(voterCount, appt.RequiredParticipants, appt.NotificationSent)

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Appointment: appt,
		Results:     results,
		Participation: models.CompletionStatus{
			IsComplete:           comp.IsComplete,
			CurrentVoters:        voterCount,
			RequiredParticipants: appt.RequiredParticipants,
			NotificationSent:     appt.NotificationSent,
		},
	})
}

// GetParticipation handles GET /appointments/{token}/participation
func (h *ResultsHandler) GetParticipation(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

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

	voterCount, err := countVoters(h.db, appt.ID)
	if err != nil {
		slog.Error("failed to count voters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	comp := schedule.EvaluateCompletion(voterCount, appt.RequiredParticipants, appt.NotificationSent)

	middleware.JSONResponse(w, http.StatusOK, models.CompletionStatus{
		IsComplete:           comp.IsComplete,
		CurrentVoters:        voterCount,
		RequiredParticipants: appt.RequiredParticipants,
		NotificationSent:     appt.NotificationSent,
	})
}

// tallyVotes groups the appointment's votes by unit key. Keys that fail to
// parse (none should exist, validation runs at submit time) are skipped
// with a warning rather than failing the whole ranking.
func (h *ResultsHandler) tallyVotes(appointmentID string) (map[models.TimeUnit]int, error) {
	rows, err := h.db.Query(`
		SELECT unit_key, COUNT(*)
		FROM vote
		WHERE appointment_id = $1
		GROUP BY unit_key
	`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tally := make(map[models.TimeUnit]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		unit, err := models.ParseUnitKey(key)
		if err != nil {
			slog.Warn("skipping malformed unit key", "appointment_id", appointmentID, "key", key)
			continue
		}
		tally[unit] = count
	}
	return tally, rows.Err()
}
