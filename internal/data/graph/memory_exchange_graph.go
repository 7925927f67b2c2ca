package graph

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	types "github.com/yungbote/mailgraph/internal/domain"
)

type edgeKey struct {
	person string
	email  uuid.UUID
}

// MemoryExchangeGraph applies the same merge protocol as the Neo4j writer to
// in-process maps. It backs dry runs.
type MemoryExchangeGraph struct {
	mu       sync.Mutex
	persons  map[string]types.Person
	emails   map[uuid.UUID]types.Email
	sent     map[edgeKey]struct{}
	received map[edgeKey]struct{}
}

func NewMemoryExchangeGraph() *MemoryExchangeGraph {
	return &MemoryExchangeGraph{
		persons:  map[string]types.Person{},
		emails:   map[uuid.UUID]types.Email{},
		sent:     map[edgeKey]struct{}{},
		received: map[edgeKey]struct{}{},
	}
}

func (g *MemoryExchangeGraph) UpsertExchange(ctx context.Context, ev *types.ExchangeEvent) error {
	if err := validateEvent(ev); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	from := g.mergePerson(ev.From.Normalized())
	if _, ok := g.emails[ev.ID]; !ok {
		g.emails[ev.ID] = ev.Email()
	}
	g.sent[edgeKey{person: from, email: ev.ID}] = struct{}{}
	for _, p := range ev.Recipients() {
		to := g.mergePerson(p)
		g.received[edgeKey{person: to, email: ev.ID}] = struct{}{}
	}
	return nil
}

// mergePerson sets the name on create only.
func (g *MemoryExchangeGraph) mergePerson(p types.Person) string {
	if _, ok := g.persons[p.Email]; !ok {
		g.persons[p.Email] = p
	}
	return p.Email
}

func (g *MemoryExchangeGraph) Stats(ctx context.Context) (Stats, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{
		Persons:  int64(len(g.persons)),
		Emails:   int64(len(g.emails)),
		Sent:     int64(len(g.sent)),
		Received: int64(len(g.received)),
	}, nil
}

func (g *MemoryExchangeGraph) EmailShape(ctx context.Context, id uuid.UUID) (Shape, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.emails[id]; !ok {
		return Shape{}, false, nil
	}
	var s Shape
	for k := range g.sent {
		if k.email == id {
			s.Senders++
		}
	}
	for k := range g.received {
		if k.email == id {
			s.Recipients++
		}
	}
	return s, true, nil
}

func (g *MemoryExchangeGraph) Person(ctx context.Context, email string) (types.Person, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.persons[strings.TrimSpace(email)]
	return p, ok, nil
}
