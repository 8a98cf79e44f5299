// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers implements the HTTP endpoints for appointment
// scheduling: creating and deleting appointments, submitting availability
// votes, and reading computed results and participation status.
//
// The handlers own the persistence side of the flow (loading appointments
// by share token, tallying votes) and delegate the pure decisions to the
// schedule package. Results are served through an LRU cache whose entries
// carry the vote and voter counts they were computed from, so stale
// rankings are recomputed instead of returned.
//
// The completion notification fires from the vote-submission path: after
// a submission commits, the handler re-counts voters, evaluates the quorum,
// and claims the appointment's single notification slot with a conditional
// UPDATE on notification_sent. Only the request that flips the flag
// dispatches, no matter how many submissions cross the quorum at once.
package handlers
