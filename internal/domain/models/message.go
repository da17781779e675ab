// internal/domain/models/message.go
package models

import "time"

// Message is an announcement fetched read-only from the admin messaging
// endpoint, scoped to a role or a single user.
type Message struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}
