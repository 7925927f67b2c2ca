package source

import (
	"context"
	"iter"

	types "github.com/yungbote/mailgraph/internal/domain"
)

// Exchange is the placeholder for a real Exchange mailbox export. Until it is
// written every run against it stops with ErrNotImplemented.
type Exchange struct{}

func NewExchange() *Exchange { return &Exchange{} }

func (e *Exchange) Name() string { return "exchange" }

func (e *Exchange) Exchanges(ctx context.Context) iter.Seq2[*types.ExchangeEvent, error] {
	return func(yield func(*types.ExchangeEvent, error) bool) {
		yield(nil, ErrNotImplemented)
	}
}
