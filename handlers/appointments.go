// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/when-works/auth"
	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/middleware"
	"github.com/danielhkuo/when-works/models"
)

const dateLayout = "2006-01-02"

type AppointmentHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	cache *ResultsCache
}

func NewAppointmentHandler(db *sql.DB, cfg cliparse.Config, cache *ResultsCache) *AppointmentHandler {
	return &AppointmentHandler{db: db, cfg: cfg, cache: cache}
}

const appointmentColumns = `id, share_token, title, method, start_date, end_date, deadline,
	       creator_contact, required_participants, weekly_meetings, is_public,
	       notification_sent, created_at`

// getAppointmentByToken loads an appointment by its share token.
// Returns sql.ErrNoRows unchanged so callers can map it to 404.
func getAppointmentByToken(db *sql.DB, token string) (models.Appointment, error) {
	var appt models.Appointment
	err := db.QueryRow(`
		SELECT `+appointmentColumns+`
		FROM appointment
		WHERE share_token = $1
	`, token).Scan(
		&appt.ID, &appt.ShareToken, &appt.Title, &appt.Method, &appt.StartDate,
		&appt.EndDate, &appt.Deadline, &appt.CreatorContact, &appt.RequiredParticipants,
		&appt.WeeklyMeetings, &appt.IsPublic, &appt.NotificationSent, &appt.CreatedAt,
	)
	return appt, err
}

// countVoters returns the number of distinct vote submissions for an appointment.
func countVoters(db *sql.DB, appointmentID string) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM voter WHERE appointment_id = $1
	`, appointmentID).Scan(&count)
	return count, err
}

// Create handles POST /appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAppointmentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Method == models.MethodTimeScheduling {
		middleware.ErrorResponse(w, http.StatusBadRequest, "method 'time-scheduling' is disabled")
		return
	}
	if !models.ValidMethod(req.Method) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown method: "+req.Method)
		return
	}
	if req.RequiredParticipants < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "required_participants cannot be negative")
		return
	}

	if req.Method == models.MethodRecurring {
		if req.WeeklyMeetings == 0 {
			req.WeeklyMeetings = 1
		}
		if req.WeeklyMeetings < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "weekly_meetings must be at least 1")
			return
		}
	} else {
		// Date-range methods need both bounds or neither
		if (req.StartDate == "") != (req.EndDate == "") {
			middleware.ErrorResponse(w, http.StatusBadRequest, "start_date and end_date must be set together")
			return
		}
		if req.StartDate != "" {
			start, err1 := time.Parse(dateLayout, req.StartDate)
			end, err2 := time.Parse(dateLayout, req.EndDate)
			if err1 != nil || err2 != nil {
				middleware.ErrorResponse(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
				return
			}
			if end.Before(start) {
				middleware.ErrorResponse(w, http.StatusBadRequest, "end_date is before start_date")
				return
			}
		}
	}

	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deadline is in the past")
		return
	}

	// Generate appointment ID and tokens
	appointmentID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate appointment ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	shareToken, err := auth.GenerateShareToken()
	if err != nil {
		slog.Error("failed to generate share token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	adminKey := auth.GenerateAdminKey(appointmentID, h.cfg.AdminKeySalt)

	var startDate, endDate, contact *string
	if req.StartDate != "" {
		startDate = &req.StartDate
		endDate = &req.EndDate
	}
	if req.CreatorContact != "" {
		contact = &req.CreatorContact
	}

	_, err = h.db.Exec(`
		INSERT INTO appointment (id, share_token, title, method, start_date, end_date,
			deadline, creator_contact, required_participants, weekly_meetings,
			is_public, notification_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, appointmentID, shareToken, req.Title, req.Method, startDate, endDate,
		req.Deadline, contact, req.RequiredParticipants, req.WeeklyMeetings,
		req.IsPublic, false, time.Now())

	if err != nil {
		slog.Error("failed to insert appointment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	slog.Info("appointment created", "appointment_id", appointmentID, "method", req.Method)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateAppointmentResponse{
		AppointmentID: appointmentID,
		ShareToken:    shareToken,
		ShareURL:      h.cfg.BaseURL + "/appointments/" + shareToken,
		AdminKey:      adminKey,
	})
}

// Delete handles DELETE /appointments/{id}
// Voters, votes and queued notifications cascade with the appointment.
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	appointmentID := r.PathValue("id")
	if appointmentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "appointment_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(appointmentID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	res, err := h.db.Exec(`DELETE FROM appointment WHERE id = $1`, appointmentID)
	if err != nil {
		slog.Error("failed to delete appointment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Appointment not found")
		return
	}

	h.cache.Invalidate(appointmentID)
	slog.Info("appointment deleted", "appointment_id", appointmentID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Appointment deleted",
	})
}

// ListPublic handles GET /appointments/public
// Returns appointments flagged is_public, newest first.
func (h *AppointmentHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT a.id, a.share_token, a.title, a.method, a.start_date, a.end_date,
		       a.deadline, a.creator_contact, a.required_participants,
		       a.weekly_meetings, a.is_public, a.notification_sent, a.created_at,
		       COUNT(v.id)
		FROM appointment a
		LEFT JOIN voter v ON v.appointment_id = a.id
		WHERE a.is_public
		GROUP BY a.id
		ORDER BY a.created_at DESC
		LIMIT 50
	`)
	if err != nil {
		slog.Error("failed to query public appointments", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	appointments := []models.AppointmentWithVoters{}
	for rows.Next() {
		var item models.AppointmentWithVoters
		appt := &item.Appointment
		if err := rows.Scan(
			&appt.ID, &appt.ShareToken, &appt.Title, &appt.Method, &appt.StartDate,
			&appt.EndDate, &appt.Deadline, &appt.CreatorContact, &appt.RequiredParticipants,
			&appt.WeeklyMeetings, &appt.IsPublic, &appt.NotificationSent, &appt.CreatedAt,
			&item.CurrentVoters,
		); err != nil {
			slog.Error("failed to scan appointment", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		appointments = append(appointments, item)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate appointments", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
	})
}
