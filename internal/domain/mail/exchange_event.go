package mail

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ExchangeEvent is one message as seen by a data source. CC is carried but not
// ingested; the loader only reports it.
type ExchangeEvent struct {
	ID      uuid.UUID `json:"id"`
	From    Person    `json:"from"`
	To      []Person  `json:"to"`
	CC      []Person  `json:"cc,omitempty"`
	Subject string    `json:"subject"`
}

type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "invalid exchange event"
	}
	if e.Value != "" {
		return fmt.Sprintf("invalid exchange event: %s=%q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid exchange event: %s is required", e.Field)
}

func (e *ExchangeEvent) Validate() error {
	if e == nil {
		return &ValidationError{Field: "event"}
	}
	if e.ID == uuid.Nil {
		return &ValidationError{Field: "id"}
	}
	if strings.TrimSpace(e.From.Email) == "" {
		return &ValidationError{Field: "from.email"}
	}
	if len(e.To) == 0 {
		return &ValidationError{Field: "to"}
	}
	for i, p := range e.To {
		if strings.TrimSpace(p.Email) == "" {
			return &ValidationError{Field: fmt.Sprintf("to[%d].email", i)}
		}
	}
	return nil
}

// Email returns the message node this event merges.
func (e *ExchangeEvent) Email() Email {
	return Email{ID: e.ID, Subject: e.Subject}
}

// Recipients returns the distinct To recipients in first-seen order. Duplicate
// addresses collapse onto one RECEIVED edge in the graph anyway.
func (e *ExchangeEvent) Recipients() []Person {
	seen := make(map[string]struct{}, len(e.To))
	out := make([]Person, 0, len(e.To))
	for _, p := range e.To {
		p = p.Normalized()
		if _, ok := seen[p.Email]; ok {
			continue
		}
		seen[p.Email] = struct{}{}
		out = append(out, p)
	}
	return out
}
