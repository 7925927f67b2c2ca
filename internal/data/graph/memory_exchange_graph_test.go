package graph

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/mailgraph/internal/domain"
)

func exampleEvent() *types.ExchangeEvent {
	return &types.ExchangeEvent{
		ID:      uuid.MustParse("6f1c1a52-8d4e-4f55-9d2b-0d6a4b3c2e11"),
		From:    types.Person{Email: "a@x.com", Name: "A"},
		To:      []types.Person{{Email: "b@x.com", Name: "B"}},
		Subject: "Hi",
	}
}

func mustStats(t *testing.T, g ExchangeReader) Stats {
	t.Helper()
	s, err := g.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	return s
}

func TestMemoryExampleScenario(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryExchangeGraph()
	ev := exampleEvent()

	if err := g.UpsertExchange(ctx, ev); err != nil {
		t.Fatalf("UpsertExchange: %v", err)
	}
	want := Stats{Persons: 2, Emails: 1, Sent: 1, Received: 1}
	if got := mustStats(t, g); got != want {
		t.Fatalf("stats: want=%+v got=%+v", want, got)
	}

	a, ok, _ := g.Person(ctx, "a@x.com")
	if !ok || a.Name != "A" {
		t.Fatalf("person a: ok=%v got=%+v", ok, a)
	}
	b, ok, _ := g.Person(ctx, "b@x.com")
	if !ok || b.Name != "B" {
		t.Fatalf("person b: ok=%v got=%+v", ok, b)
	}

	if err := g.UpsertExchange(ctx, ev); err != nil {
		t.Fatalf("UpsertExchange (again): %v", err)
	}
	if got := mustStats(t, g); got != want {
		t.Fatalf("stats after re-ingest: want=%+v got=%+v", want, got)
	}
}

func TestMemoryNameSetOnCreateOnly(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryExchangeGraph()
	if err := g.UpsertExchange(ctx, exampleEvent()); err != nil {
		t.Fatalf("UpsertExchange: %v", err)
	}

	renamed := &types.ExchangeEvent{
		ID:      uuid.New(),
		From:    types.Person{Email: "b@x.com", Name: "Bee"},
		To:      []types.Person{{Email: "a@x.com", Name: "Ay"}},
		Subject: "Re: Hi",
	}
	if err := g.UpsertExchange(ctx, renamed); err != nil {
		t.Fatalf("UpsertExchange: %v", err)
	}

	for email, want := range map[string]string{"a@x.com": "A", "b@x.com": "B"} {
		p, ok, _ := g.Person(ctx, email)
		if !ok || p.Name != want {
			t.Fatalf("%s name: want=%q got=%q", email, want, p.Name)
		}
	}
	if got := mustStats(t, g).Persons; got != 2 {
		t.Fatalf("persons: want=2 got=%d", got)
	}
}

func TestMemoryRejectsInvalidEventWithoutWriting(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryExchangeGraph()
	ev := exampleEvent()
	ev.To = append(ev.To, types.Person{Name: "no address"})

	err := g.UpsertExchange(ctx, ev)
	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected *WriteError, got=%T (%v)", err, err)
	}
	if werr.Op != WriteOpValidate || werr.EventID != ev.ID {
		t.Fatalf("write error: got=%+v", werr)
	}
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected wrapped *ValidationError, got=%v", err)
	}
	if got := mustStats(t, g); got != (Stats{}) {
		t.Fatalf("graph should be empty, got=%+v", got)
	}
}

func TestMemoryDuplicateRecipientsCollapse(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryExchangeGraph()
	ev := exampleEvent()
	ev.To = []types.Person{{Email: "b@x.com", Name: "B"}, {Email: "b@x.com", Name: "B"}, {Email: "c@x.com", Name: "C"}}
	if err := g.UpsertExchange(ctx, ev); err != nil {
		t.Fatalf("UpsertExchange: %v", err)
	}
	shape, ok, _ := g.EmailShape(ctx, ev.ID)
	if !ok {
		t.Fatalf("EmailShape: email not found")
	}
	if shape.Senders != 1 || shape.Recipients != 2 {
		t.Fatalf("shape: got=%+v", shape)
	}
}

func randomEvents(r *rand.Rand, n, pool int) []*types.ExchangeEvent {
	person := func(i int) types.Person {
		return types.Person{Email: fmt.Sprintf("p%d@x.com", i), Name: fmt.Sprintf("P%d", i)}
	}
	out := make([]*types.ExchangeEvent, 0, n)
	for i := 0; i < n; i++ {
		to := make([]types.Person, 0, 3)
		for j := 0; j < 1+r.IntN(3); j++ {
			to = append(to, person(r.IntN(pool)))
		}
		out = append(out, &types.ExchangeEvent{
			ID:      uuid.New(),
			From:    person(r.IntN(pool)),
			To:      to,
			Subject: fmt.Sprintf("Subject %d", i),
		})
	}
	return out
}

func TestMemoryProperties(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewPCG(7, 11))
	events := randomEvents(r, 200, 30)

	g := NewMemoryExchangeGraph()
	for _, ev := range events {
		if err := g.UpsertExchange(ctx, ev); err != nil {
			t.Fatalf("UpsertExchange: %v", err)
		}
	}
	once := mustStats(t, g)

	// Replay everything, in reverse, to check order independence as well.
	for i := len(events) - 1; i >= 0; i-- {
		if err := g.UpsertExchange(ctx, events[i]); err != nil {
			t.Fatalf("UpsertExchange (replay): %v", err)
		}
	}
	if twice := mustStats(t, g); twice != once {
		t.Fatalf("idempotence: once=%+v twice=%+v", once, twice)
	}

	addrs := map[string]struct{}{}
	var wantReceived int64
	for _, ev := range events {
		addrs[ev.From.Email] = struct{}{}
		for _, p := range ev.To {
			addrs[p.Email] = struct{}{}
		}
		wantReceived += int64(len(ev.Recipients()))
	}
	if once.Persons != int64(len(addrs)) {
		t.Fatalf("persons: want=%d got=%d", len(addrs), once.Persons)
	}
	if once.Emails != int64(len(events)) {
		t.Fatalf("emails: want=%d got=%d", len(events), once.Emails)
	}
	if once.Sent != int64(len(events)) {
		t.Fatalf("sent: want=%d got=%d", len(events), once.Sent)
	}
	if once.Received != wantReceived {
		t.Fatalf("received: want=%d got=%d", wantReceived, once.Received)
	}

	for _, ev := range events {
		shape, ok, _ := g.EmailShape(ctx, ev.ID)
		if !ok {
			t.Fatalf("email %s missing", ev.ID)
		}
		if shape.Senders != 1 || shape.Recipients != int64(len(ev.Recipients())) {
			t.Fatalf("shape %s: want senders=1 recipients=%d got=%+v", ev.ID, len(ev.Recipients()), shape)
		}
	}
}

func TestMemoryEmailShapeUnknown(t *testing.T) {
	g := NewMemoryExchangeGraph()
	if _, ok, err := g.EmailShape(context.Background(), uuid.New()); ok || err != nil {
		t.Fatalf("EmailShape unknown: ok=%v err=%v", ok, err)
	}
}
