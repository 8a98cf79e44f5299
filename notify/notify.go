// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/danielhkuo/when-works/cliparse"
	"github.com/danielhkuo/when-works/models"
)

// Payload is what the dispatch gate receives when an appointment completes.
// Templating, transport and delivery tracking live behind Dispatcher.
type Payload struct {
	AppointmentID string
	Title         string
	ShareToken    string
	Recipient     string
	MessageType   string
}

// Dispatcher sends a completion notification over some transport.
type Dispatcher interface {
	Dispatch(p Payload) error
}

// NewFromConfig picks the dispatcher for the configured environment:
// SMTP mail when SMTP_HOST is set, log-only otherwise.
func NewFromConfig(cfg cliparse.Config) Dispatcher {
	if cfg.SMTPHost != "" {
		return NewSMTPDispatcher(cfg)
	}
	return LogDispatcher{}
}

// SMTPDispatcher delivers completion notifications as mail to the
// appointment creator's contact address.
type SMTPDispatcher struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func NewSMTPDispatcher(cfg cliparse.Config) *SMTPDispatcher {
	return &SMTPDispatcher{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:    cfg.SMTPFrom,
		baseURL: cfg.BaseURL,
	}
}

func (d *SMTPDispatcher) Dispatch(p Payload) error {
	resultsURL := d.baseURL + "/appointments/" + p.ShareToken + "/results"

	message := gomail.NewMessage()
	message.SetHeader("From", d.from)
	message.SetHeader("To", p.Recipient)
	message.SetHeader("Subject", "Everyone has voted on \""+p.Title+"\"")
	message.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h2 style="color: #333;">Your appointment is ready to schedule</h2>
			<p>All required participants have voted on <b>`+p.Title+`</b>.</p>
			<p style="text-align: center;"><a href="`+resultsURL+`" style="display: inline-block; padding: 10px 20px; background-color: #007bff; color: #fff; text-decoration: none; border-radius: 5px;">View the results</a></p>
		</div>
	`)

	return d.dialer.DialAndSend(message)
}

// LogDispatcher is the no-SMTP fallback: the completion still gets recorded
// in the queue, the "send" is a log line.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(p Payload) error {
	slog.Info("completion notification (no SMTP configured)",
		"appointment_id", p.AppointmentID,
		"recipient", p.Recipient,
		"message_type", p.MessageType,
	)
	return nil
}

// SendCompletion creates the queue entry for an appointment's completion
// and hands it to the dispatcher. Callers hold the notification_sent guard,
// so this runs at most once per appointment. A dispatch failure is recorded
// as failed on the queue row and is NOT retried here - the notified flag
// stays set, so missing a retry beats double-notifying.
func SendCompletion(db *sql.DB, d Dispatcher, p Payload) error {
	id := uuid.NewString()
	now := time.Now()

	_, err := db.Exec(`
		INSERT INTO notification_queue (id, appointment_id, recipient, message_type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, p.AppointmentID, p.Recipient, p.MessageType, models.NotifyStatusPending, now, now)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	if dispatchErr := d.Dispatch(p); dispatchErr != nil {
		slog.Error("notification dispatch failed",
			"appointment_id", p.AppointmentID,
			"notification_id", id,
			"error", dispatchErr,
		)
		_, err := db.Exec(`
			UPDATE notification_queue
			SET status = $1, error_message = $2, updated_at = $3
			WHERE id = $4
		`, models.NotifyStatusFailed, dispatchErr.Error(), time.Now(), id)
		if err != nil {
			slog.Error("failed to record notification failure", "notification_id", id, "error", err)
		}
		return dispatchErr
	}

	_, err = db.Exec(`
		UPDATE notification_queue
		SET status = $1, updated_at = $2
		WHERE id = $3
	`, models.NotifyStatusSent, time.Now(), id)
	if err != nil {
		slog.Error("failed to mark notification sent", "notification_id", id, "error", err)
	}

	slog.Info("completion notification dispatched", "appointment_id", p.AppointmentID, "notification_id", id)
	return nil
}
