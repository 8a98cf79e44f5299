// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(appointmentID, salt)
	err := auth.ValidateAdminKey(appointmentID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same appointment ID and salt always produce the same key. This allows
validation without storing the key in the database.

# Share Tokens

Share tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateShareToken()

The share token is the sole access credential for an appointment's voting
and results pages, so it is random rather than derived from the appointment
ID: knowing an ID must not let anyone reconstruct the token. Tokens are
URL-safe base64 encoded without padding.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
