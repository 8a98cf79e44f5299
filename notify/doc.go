// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify implements the notification dispatch gate.

The decision to notify is made elsewhere (schedule.EvaluateCompletion plus
the handlers' conditional flag flip); this package owns the transport and
the queue bookkeeping once that decision is made.

# Dispatchers

Dispatcher is the transport interface. Two implementations ship:

  - SMTPDispatcher: mails the appointment creator via gomail
  - LogDispatcher: logs the completion when no SMTP host is configured

NewFromConfig selects between them.

# Queue Bookkeeping

SendCompletion inserts a notification_queue row as pending, dispatches,
then marks the row sent or failed:

	err := notify.SendCompletion(db, dispatcher, notify.Payload{...})

A dispatch failure records the error on the row and returns it; the row is
never retried automatically and the appointment's notified flag stays set.
At most one queue row ever exists per appointment because callers only
reach SendCompletion after winning the notification_sent conditional
update.
*/
package notify
