package source

import (
	"fmt"
	"io"
	"strings"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	types "github.com/yungbote/mailgraph/internal/domain"
)

// messageIDNamespace scopes the name-based UUIDs derived from Message-ID, so a
// message read twice (or from two sources) maps onto the same Email node.
var messageIDNamespace = uuid.MustParse("2c7f6a0e-3f6b-5b8e-9a43-6b1d0d8f2a51")

// ParseMessage reads the RFC 5322 header of a message. Only the header is
// consumed; bodies are never read.
func ParseMessage(r io.Reader) (*types.ExchangeEvent, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	defer mr.Close()
	return eventFromHeader(mr.Header)
}

func eventFromHeader(h mail.Header) (*types.ExchangeEvent, error) {
	from, err := h.AddressList("From")
	if err != nil {
		return nil, fmt.Errorf("parse From: %w", err)
	}
	if len(from) == 0 {
		return nil, fmt.Errorf("parse message: missing From")
	}
	to, err := h.AddressList("To")
	if err != nil {
		return nil, fmt.Errorf("parse To: %w", err)
	}
	cc, err := h.AddressList("Cc")
	if err != nil {
		return nil, fmt.Errorf("parse Cc: %w", err)
	}
	subject, err := h.Subject()
	if err != nil {
		// Undecodable encoded-words; keep the raw value.
		subject = h.Get("Subject")
	}

	ev := &types.ExchangeEvent{
		ID:      messageUUID(h),
		From:    personFromAddress(from[0]),
		To:      peopleFromAddresses(to),
		CC:      peopleFromAddresses(cc),
		Subject: strings.TrimSpace(subject),
	}
	return ev, nil
}

func messageUUID(h mail.Header) uuid.UUID {
	id, err := h.MessageID()
	if err != nil || strings.TrimSpace(id) == "" {
		// Some mailers omit the angle brackets; the raw value is still stable.
		id = strings.Trim(strings.TrimSpace(h.Get("Message-Id")), "<>")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return uuid.New()
	}
	return uuid.NewSHA1(messageIDNamespace, []byte(id))
}

func personFromAddress(a *mail.Address) types.Person {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = a.Address
	}
	return types.Person{Email: strings.TrimSpace(a.Address), Name: name}
}

func peopleFromAddresses(in []*mail.Address) []types.Person {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.Person, 0, len(in))
	for _, a := range in {
		if a == nil {
			continue
		}
		out = append(out, personFromAddress(a))
	}
	return out
}
