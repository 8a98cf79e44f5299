// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the When Works API server.

When Works is a group-scheduling service: a creator defines an appointment
(a candidate date range, or a recurring weekly pattern) together with a
voting method and a participation quorum, participants mark their
availability through a shareable link without accounts, and the server
aggregates the votes into a ranked list of feasible meeting times.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3320 -d "postgres://..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL or SQLite connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3320)
  - DATABASE_TYPE (-t): "postgres" or "sqlite" (default: sqlite)
  - BASE_URL: Public base URL used in share links and notification mail
  - SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, SMTP_FROM: completion
    notification mail; when SMTP_HOST is unset notifications are logged only
  - RESULTS_CACHE_SIZE: LRU size for computed rankings (default: 512)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (appointments, voting, results)
  - schedule: pure result calculator and completion evaluator
  - notify: completion notification dispatch and queue bookkeeping
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and the tagged time-unit type
  - auth: Token generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
