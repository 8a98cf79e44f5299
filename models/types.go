// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Voting method constants
const (
	MethodAllAvailable    = "all-available"
	MethodMaxAvailable    = "max-available"
	MethodMinimumRequired = "minimum-required"
	MethodRecurring       = "recurring"

	// MethodTimeScheduling is a disabled variant: creation and calculation
	// both reject it rather than guessing a ranking policy.
	MethodTimeScheduling = "time-scheduling"
)

// ValidMethod reports whether m is one of the supported voting methods.
// The disabled time-scheduling variant is not valid.
func ValidMethod(m string) bool {
	switch m {
	case MethodAllAvailable, MethodMaxAvailable, MethodMinimumRequired, MethodRecurring:
		return true
	}
	return false
}

// Notification status constants
const (
	NotifyStatusPending = "pending"
	NotifyStatusSent    = "sent"
	NotifyStatusFailed  = "failed"
)

// MessageTypeComplete is the one message type the server currently emits:
// the appointment reached its participation quorum.
const MessageTypeComplete = "appointment-complete"

// Request types

type CreateAppointmentRequest struct {
	Title                string     `json:"title"`
	Method               string     `json:"method"`
	StartDate            string     `json:"start_date,omitempty"`
	EndDate              string     `json:"end_date,omitempty"`
	Deadline             *time.Time `json:"deadline,omitempty"`
	CreatorContact       string     `json:"creator_contact,omitempty"`
	RequiredParticipants int        `json:"required_participants"`
	WeeklyMeetings       int        `json:"weekly_meetings,omitempty"`
	IsPublic             bool       `json:"is_public"`
}

type SubmitVotesRequest struct {
	Name  string     `json:"name"`
	Units []TimeUnit `json:"units"`
}

// Response types

type CreateAppointmentResponse struct {
	AppointmentID string `json:"appointment_id"`
	ShareToken    string `json:"share_token"`
	ShareURL      string `json:"share_url"`
	AdminKey      string `json:"admin_key"`
}

type SubmitVotesResponse struct {
	VoterID       string           `json:"voter_id"`
	Message       string           `json:"message"`
	Participation CompletionStatus `json:"participation"`
}

type ResultsResponse struct {
	Appointment   Appointment      `json:"appointment"`
	Results       []UnitResult     `json:"results"`
	Participation CompletionStatus `json:"participation"`
}

// Domain types

type Appointment struct {
	ID                   string     `json:"id"`
	ShareToken           string     `json:"share_token"`
	Title                string     `json:"title"`
	Method               string     `json:"method"`
	StartDate            *string    `json:"start_date,omitempty"`
	EndDate              *string    `json:"end_date,omitempty"`
	Deadline             *time.Time `json:"deadline,omitempty"`
	CreatorContact       *string    `json:"-"` // Never expose in JSON
	RequiredParticipants int        `json:"required_participants"`
	WeeklyMeetings       int        `json:"weekly_meetings,omitempty"`
	IsPublic             bool       `json:"is_public"`
	NotificationSent     bool       `json:"notification_sent"`
	CreatedAt            time.Time  `json:"created_at"`
}

type AppointmentWithVoters struct {
	Appointment   Appointment `json:"appointment"`
	CurrentVoters int         `json:"current_voters"`
}

// UnitResult is one ranked candidate meeting unit. Qualifies distinguishes
// "fully satisfying" units from best-available fallbacks.
type UnitResult struct {
	Unit         TimeUnit `json:"unit"`
	SupportCount int      `json:"support_count"`
	SupportRatio float64  `json:"support_ratio"`
	Qualifies    bool     `json:"qualifies"`
}

// CompletionStatus reports quorum progress for an appointment.
type CompletionStatus struct {
	IsComplete           bool `json:"is_complete"`
	CurrentVoters        int  `json:"current_voters"`
	RequiredParticipants int  `json:"required_participants"`
	NotificationSent     bool `json:"notification_sent"`
}

// Notification is one completion-notification queue entry.
// At most one exists per appointment, guarded by appointment.notification_sent.
type Notification struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	Recipient     string    `json:"recipient"`
	MessageType   string    `json:"message_type"`
	Status        string    `json:"status"`
	ErrorMessage  *string   `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
