package mail

import "github.com/google/uuid"

// Email is the message node. ID is the full merge key.
type Email struct {
	ID      uuid.UUID `json:"id"`
	Subject string    `json:"subject"`
}

const EmailLabel = "Email"

const (
	RelSent     = "SENT"
	RelReceived = "RECEIVED"
)
