// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// UserRegisteredEvent is published after a successful registration. It
// carries enough for downstream consumers (welcome mail, analytics) to
// act without querying the primary database.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	RegisteredAt string `json:"registered_at"`
}
