package model

import "time"

// PresenceSnapshot is one consistent read of a user's presence: Online is
// derived from the live connection set, LastSeen is the stamp taken when the
// user's final connection closed. When Online is true, LastSeen must not be
// surfaced as an "active N ago" value; a value left over from a previous
// session is not authoritative while the user is connected.
type PresenceSnapshot struct {
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"lastSeen"`
}
