// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the When Works API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, notifier, cache)

# Endpoints

Health:

	GET /health

Appointment management:

	POST   /appointments        - Create appointment (returns admin key)
	DELETE /appointments/{id}   - Delete appointment (requires X-Admin-Key)
	GET    /appointments/public - List public appointments

Voting (public, uses share token):

	POST /appointments/{token}/votes - Submit availability votes

Results (public):

	GET /appointments/{token}               - Appointment info and voter count
	GET /appointments/{token}/results       - Ranked meeting units
	GET /appointments/{token}/participation - Quorum progress

# Handler Initialization

The router creates handler instances with dependency injection:

	appointmentHandler := handlers.NewAppointmentHandler(db, cfg, cache)
	votingHandler := handlers.NewVotingHandler(db, cfg, notifier)
	resultsHandler := handlers.NewResultsHandler(db, cache)

The voting handler receives the notification dispatcher so completion
mail can be faked in tests; the results handlers share one LRU cache.
*/
package router
