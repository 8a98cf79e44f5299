// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to the SQL subset both drivers accept (no NOW(), no JSONB),
// so the same schema runs on postgres and sqlite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Appointments
CREATE TABLE IF NOT EXISTS appointment (
    id TEXT PRIMARY KEY,
    share_token TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    method TEXT NOT NULL CHECK (method IN ('all-available', 'max-available', 'minimum-required', 'recurring')),
    start_date TEXT,
    end_date TEXT,
    deadline TIMESTAMP,
    creator_contact TEXT,
    required_participants INTEGER NOT NULL DEFAULT 0,
    weekly_meetings INTEGER NOT NULL DEFAULT 1,
    is_public BOOLEAN NOT NULL DEFAULT FALSE,
    notification_sent BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_appointment_share_token ON appointment(share_token);
CREATE INDEX IF NOT EXISTS idx_appointment_is_public ON appointment(is_public);

-- Voters (append-only; names are not unique)
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    appointment_id TEXT NOT NULL REFERENCES appointment(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    voted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voter_appointment_id ON voter(appointment_id);

-- Vote entries: one row per (voter, selected unit)
CREATE TABLE IF NOT EXISTS vote (
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    appointment_id TEXT NOT NULL REFERENCES appointment(id) ON DELETE CASCADE,
    unit_key TEXT NOT NULL,
    PRIMARY KEY (voter_id, unit_key)
);

CREATE INDEX IF NOT EXISTS idx_vote_appointment_unit ON vote(appointment_id, unit_key);

-- Completion notifications (at most one per appointment)
CREATE TABLE IF NOT EXISTS notification_queue (
    id TEXT PRIMARY KEY,
    appointment_id TEXT NOT NULL REFERENCES appointment(id) ON DELETE CASCADE,
    recipient TEXT NOT NULL,
    message_type TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'sent', 'failed')),
    error_message TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notification_queue_appointment ON notification_queue(appointment_id);
`
