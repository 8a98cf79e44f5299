// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - appointment: Appointment metadata, voting method, quorum,
    notification_sent flag
  - voter: One row per vote submission (append-only, names not unique)
  - vote: One row per (voter, selected unit), unit stored as canonical key
  - notification_queue: Completion notifications (pending/sent/failed)

# Relationships

	appointment 1──* voter
	voter 1──* vote
	appointment 1──* notification_queue

All foreign keys use ON DELETE CASCADE.

# Indexes

Performance indexes on:

  - appointment.share_token (unique)
  - appointment.is_public
  - voter.appointment_id
  - vote.(appointment_id, unit_key)
  - notification_queue.appointment_id

# Portability

The DDL avoids postgres-only constructs so the DATABASE_TYPE=sqlite mode
runs the identical schema.
*/
package db
