// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateAppointmentRequest: title, method, date bounds, deadline,
    creator_contact, required_participants, weekly_meetings, is_public
  - SubmitVotesRequest: name, units ([]TimeUnit)

# Response Types

Types for JSON responses:

  - CreateAppointmentResponse: appointment_id, share_token, share_url, admin_key
  - SubmitVotesResponse: voter_id, message, participation
  - ResultsResponse: appointment, results, participation
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Appointment: appointment metadata, quorum and notification flag
  - TimeUnit: tagged variant for a candidate unit (date, weekday,
    weekday+slot); validated at the store boundary
  - UnitResult: ranked unit with support count/ratio and qualifies flag
  - CompletionStatus: quorum progress
  - Notification: completion notification queue entry

# TimeUnit

TimeUnit is the tagged vote-unit type. Its JSON form carries a "kind"
discriminator:

	{"kind": "date", "date": "2024-06-01"}
	{"kind": "weekday", "weekday": 3}
	{"kind": "weekday_slot", "weekday": 3, "slot": 5}

Weekdays use the Sunday=0 .. Saturday=6 convention throughout. Key()
produces the canonical string stored in vote.unit_key; ParseUnitKey
decodes it. Less() defines the natural order used for ranking tie-breaks.

# Constants

Voting methods:

	MethodAllAvailable    = "all-available"
	MethodMaxAvailable    = "max-available"
	MethodMinimumRequired = "minimum-required"
	MethodRecurring       = "recurring"
	MethodTimeScheduling  = "time-scheduling" (disabled, always rejected)

Notification statuses:

	NotifyStatusPending = "pending"
	NotifyStatusSent    = "sent"
	NotifyStatusFailed  = "failed"
*/
package models
