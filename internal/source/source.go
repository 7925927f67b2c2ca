package source

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"

	types "github.com/yungbote/mailgraph/internal/domain"
)

// Source yields exchange events once. The sequence is finite and cannot be
// restarted; a second call to Exchanges yields ErrSourceConsumed.
type Source interface {
	Name() string
	Exchanges(ctx context.Context) iter.Seq2[*types.ExchangeEvent, error]
}

var (
	ErrNotImplemented = errors.New("source: not implemented")
	ErrSourceConsumed = errors.New("source: sequence already consumed")
)

// SourceError means the source itself is unusable (cannot connect, cannot
// read its directory). Per-message problems are reported as plain errors.
type SourceError struct {
	Source string
	Op     string
	Cause  error
}

func (e *SourceError) Error() string {
	if e == nil {
		return "source failed"
	}
	if e.Cause != nil {
		return fmt.Sprintf("source %s failed (op=%s): %v", e.Source, e.Op, e.Cause)
	}
	return fmt.Sprintf("source %s failed (op=%s)", e.Source, e.Op)
}

func (e *SourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsFatal reports whether an error yielded by a source should stop the run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotImplemented) || errors.Is(err, ErrSourceConsumed) {
		return true
	}
	var srcErr *SourceError
	return errors.As(err, &srcErr)
}

type singlePass struct {
	used atomic.Bool
}

func (p *singlePass) claim() bool {
	return p.used.CompareAndSwap(false, true)
}

func consumed(yield func(*types.ExchangeEvent, error) bool) {
	yield(nil, ErrSourceConsumed)
}
