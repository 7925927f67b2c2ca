package source

import (
	"context"
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/google/uuid"

	types "github.com/yungbote/mailgraph/internal/domain"
)

// Synthetic generates count events between count test identities. Events are
// built up front so the run is bounded before the first write.
type Synthetic struct {
	events []*types.ExchangeEvent
	pass   singlePass
}

func NewSynthetic(count int, r *rand.Rand) *Synthetic {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if count < 0 {
		count = 0
	}
	events := make([]*types.ExchangeEvent, 0, count)
	for i := 0; i < count; i++ {
		fi := r.IntN(count)
		ft := r.IntN(count)
		// One redraw only; fi == ft can survive it.
		if ft == fi {
			ft = r.IntN(count)
		}
		events = append(events, &types.ExchangeEvent{
			ID:      uuid.New(),
			From:    testPerson(fi),
			To:      []types.Person{testPerson(ft)},
			Subject: fmt.Sprintf("Subject %d", r.IntN(count)),
		})
	}
	return &Synthetic{events: events}
}

func testPerson(i int) types.Person {
	return types.Person{
		Email: fmt.Sprintf("user%d@testplace.com", i),
		Name:  fmt.Sprintf("Test Person_%d", i),
	}
}

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Len() int { return len(s.events) }

func (s *Synthetic) Exchanges(ctx context.Context) iter.Seq2[*types.ExchangeEvent, error] {
	return func(yield func(*types.ExchangeEvent, error) bool) {
		if !s.pass.claim() {
			consumed(yield)
			return
		}
		for _, ev := range s.events {
			if !yield(ev, nil) {
				return
			}
		}
	}
}
