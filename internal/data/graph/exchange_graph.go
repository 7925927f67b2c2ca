package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/mailgraph/internal/domain"
)

// ExchangeWriter applies one exchange event to the graph as a single atomic
// merge. Applying the same event again must leave the graph unchanged.
type ExchangeWriter interface {
	UpsertExchange(ctx context.Context, ev *types.ExchangeEvent) error
}

type ExchangeReader interface {
	Stats(ctx context.Context) (Stats, error)
	EmailShape(ctx context.Context, id uuid.UUID) (Shape, bool, error)
	Person(ctx context.Context, email string) (types.Person, bool, error)
}

type ExchangeGraph interface {
	ExchangeWriter
	ExchangeReader
}

type Stats struct {
	Persons  int64
	Emails   int64
	Sent     int64
	Received int64
}

// Shape is the relationship fan of one Email node.
type Shape struct {
	Senders    int64
	Recipients int64
}

type WriteErrorOp string

const (
	WriteOpValidate WriteErrorOp = "validate"
	WriteOpUpsert   WriteErrorOp = "upsert"
)

type WriteError struct {
	EventID uuid.UUID
	Op      WriteErrorOp
	Cause   error
}

func (e *WriteError) Error() string {
	if e == nil {
		return "exchange write failed"
	}
	if e.Cause != nil {
		return fmt.Sprintf("exchange write failed (op=%s event=%s): %v", e.Op, e.EventID, e.Cause)
	}
	return fmt.Sprintf("exchange write failed (op=%s event=%s)", e.Op, e.EventID)
}

func (e *WriteError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func validateEvent(ev *types.ExchangeEvent) error {
	if err := ev.Validate(); err != nil {
		id := uuid.Nil
		if ev != nil {
			id = ev.ID
		}
		return &WriteError{EventID: id, Op: WriteOpValidate, Cause: err}
	}
	return nil
}

var (
	_ ExchangeGraph = (*Neo4jExchangeGraph)(nil)
	_ ExchangeGraph = (*MemoryExchangeGraph)(nil)
)
