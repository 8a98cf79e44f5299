// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/handlers"
	"github.com/danielhkuo/when-works/middleware"
	"github.com/danielhkuo/when-works/notify"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, notifier notify.Dispatcher, cache *handlers.ResultsCache) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	appointmentHandler := handlers.NewAppointmentHandler(db, cfg, cache)
	votingHandler := handlers.NewVotingHandler(db, cfg, notifier)
	resultsHandler := handlers.NewResultsHandler(db, cache)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Appointment management
	mux.HandleFunc("POST /appointments", middleware.WithLogging(appointmentHandler.Create))
	mux.HandleFunc("DELETE /appointments/{id}", middleware.WithLogging(appointmentHandler.Delete))

	// The literal segment wins over the {token} wildcard below
	mux.HandleFunc("GET /appointments/public", middleware.WithLogging(appointmentHandler.ListPublic))

	// Voting (public, by share token)
	mux.HandleFunc("POST /appointments/{token}/votes", middleware.WithLogging(votingHandler.SubmitVotes))

	// Results retrieval (public, by share token)
	mux.HandleFunc("GET /appointments/{token}", middleware.WithLogging(resultsHandler.Get))
	mux.HandleFunc("GET /appointments/{token}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /appointments/{token}/participation", middleware.WithLogging(resultsHandler.GetParticipation))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("when-works API v1"))
	})

	return mux
}
