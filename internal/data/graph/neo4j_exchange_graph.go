package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/mailgraph/internal/domain"
	"github.com/yungbote/mailgraph/internal/platform/logger"
	"github.com/yungbote/mailgraph/internal/platform/neo4jdb"
)

// upsertExchangeCypher is built once and never carries event data; everything
// per-event travels in $data and $frm.
var upsertExchangeCypher = fmt.Sprintf(`
MERGE (from:%[1]s {email: $frm.email})
  ON CREATE SET from.name = $frm.name
MERGE (e:%[2]s {id: $data.id})
  ON CREATE SET e.subject = $data.subject
MERGE (from)-[:%[3]s]->(e)
WITH e
UNWIND $data.to AS to
MERGE (t:%[1]s {email: to.email})
  ON CREATE SET t.name = to.name
MERGE (e)-[:%[4]s]->(t)
`, types.PersonLabel, types.EmailLabel, types.RelSent, types.RelReceived)

var exchangeSchema = []string{
	fmt.Sprintf(`CREATE CONSTRAINT person_email_unique IF NOT EXISTS FOR (p:%s) REQUIRE p.email IS UNIQUE`, types.PersonLabel),
	fmt.Sprintf(`CREATE CONSTRAINT email_id_unique IF NOT EXISTS FOR (e:%s) REQUIRE e.id IS UNIQUE`, types.EmailLabel),
}

var statsQueries = []struct {
	name  string
	query string
}{
	{"persons", fmt.Sprintf(`MATCH (p:%s) RETURN count(p)`, types.PersonLabel)},
	{"emails", fmt.Sprintf(`MATCH (e:%s) RETURN count(e)`, types.EmailLabel)},
	{"sent", fmt.Sprintf(`MATCH (:%s)-[r:%s]->(:%s) RETURN count(r)`, types.PersonLabel, types.RelSent, types.EmailLabel)},
	{"received", fmt.Sprintf(`MATCH (:%s)-[r:%s]->(:%s) RETURN count(r)`, types.EmailLabel, types.RelReceived, types.PersonLabel)},
}

var emailShapeCypher = fmt.Sprintf(`
MATCH (e:%[1]s {id: $id})
RETURN COUNT { (:%[2]s)-[:%[3]s]->(e) } AS senders,
       COUNT { (e)-[:%[4]s]->(:%[2]s) } AS recipients
`, types.EmailLabel, types.PersonLabel, types.RelSent, types.RelReceived)

var personCypher = fmt.Sprintf(`MATCH (p:%s {email: $email}) RETURN p.email AS email, p.name AS name`, types.PersonLabel)

type Neo4jExchangeGraph struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jExchangeGraph(client *neo4jdb.Client, log *logger.Logger) *Neo4jExchangeGraph {
	if log == nil {
		log = logger.NewNop()
	}
	return &Neo4jExchangeGraph{client: client, log: log.With("graph", "Neo4jExchange")}
}

// EnsureSchema creates the uniqueness constraints the merge keys rely on. It is
// best effort; restricted users and Memgraph reject the syntax.
func (g *Neo4jExchangeGraph) EnsureSchema(ctx context.Context) {
	if g == nil || g.client == nil || g.client.Driver == nil {
		return
	}
	session := g.client.WriteSession(ctx)
	defer session.Close(ctx)

	for _, stmt := range exchangeSchema {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			g.log.Warn("neo4j schema init failed (continuing)", "error", err)
			continue
		}
		if _, err := res.Consume(ctx); err != nil {
			g.log.Warn("neo4j schema init failed (continuing)", "error", err)
		}
	}
}

func (g *Neo4jExchangeGraph) UpsertExchange(ctx context.Context, ev *types.ExchangeEvent) error {
	if err := validateEvent(ev); err != nil {
		return err
	}
	if g == nil || g.client == nil || g.client.Driver == nil {
		return &WriteError{EventID: ev.ID, Op: WriteOpUpsert, Cause: fmt.Errorf("neo4j client not connected")}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := g.client.WriteSession(ctx)
	defer session.Close(ctx)

	params := exchangeParams(ev)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, upsertExchangeCypher, params)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return &WriteError{EventID: ev.ID, Op: WriteOpUpsert, Cause: err}
	}
	return nil
}

// exchangeParams is the full per-call parameter bundle: the event as $data and
// its sender as $frm.
func exchangeParams(ev *types.ExchangeEvent) map[string]any {
	from := personParam(ev.From.Normalized())
	recipients := ev.Recipients()
	to := make([]map[string]any, 0, len(recipients))
	for _, p := range recipients {
		to = append(to, personParam(p))
	}
	cc := make([]map[string]any, 0, len(ev.CC))
	for _, p := range ev.CC {
		cc = append(cc, personParam(p.Normalized()))
	}
	return map[string]any{
		"data": map[string]any{
			"id":      ev.ID.String(),
			"subject": ev.Subject,
			"from":    from,
			"to":      to,
			"cc":      cc,
		},
		"frm": from,
	}
}

func personParam(p types.Person) map[string]any {
	return map[string]any{
		"email": p.Email,
		"name":  p.Name,
	}
}

func (g *Neo4jExchangeGraph) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	if g == nil || g.client == nil || g.client.Driver == nil {
		return out, fmt.Errorf("neo4j client not connected")
	}
	for _, q := range statsQueries {
		n, err := g.count(ctx, q.query, nil)
		if err != nil {
			return Stats{}, fmt.Errorf("neo4j stats %s: %w", q.name, err)
		}
		switch q.name {
		case "persons":
			out.Persons = n
		case "emails":
			out.Emails = n
		case "sent":
			out.Sent = n
		case "received":
			out.Received = n
		}
	}
	return out, nil
}

func (g *Neo4jExchangeGraph) count(ctx context.Context, query string, params map[string]any) (int64, error) {
	result, err := neo4j.ExecuteQuery(ctx, g.client.Driver, query, params, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(g.client.Database))
	if err != nil {
		return 0, err
	}
	if len(result.Records) == 0 || len(result.Records[0].Values) == 0 {
		return 0, nil
	}
	n, ok := result.Records[0].Values[0].(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected count type %T", result.Records[0].Values[0])
	}
	return n, nil
}

func (g *Neo4jExchangeGraph) EmailShape(ctx context.Context, id uuid.UUID) (Shape, bool, error) {
	if g == nil || g.client == nil || g.client.Driver == nil {
		return Shape{}, false, fmt.Errorf("neo4j client not connected")
	}
	result, err := neo4j.ExecuteQuery(ctx, g.client.Driver, emailShapeCypher, map[string]any{"id": id.String()},
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(g.client.Database))
	if err != nil {
		return Shape{}, false, err
	}
	if len(result.Records) == 0 {
		return Shape{}, false, nil
	}
	rec := result.Records[0]
	senders, _, err := neo4j.GetRecordValue[int64](rec, "senders")
	if err != nil {
		return Shape{}, false, err
	}
	recipients, _, err := neo4j.GetRecordValue[int64](rec, "recipients")
	if err != nil {
		return Shape{}, false, err
	}
	return Shape{Senders: senders, Recipients: recipients}, true, nil
}

func (g *Neo4jExchangeGraph) Person(ctx context.Context, email string) (types.Person, bool, error) {
	if g == nil || g.client == nil || g.client.Driver == nil {
		return types.Person{}, false, fmt.Errorf("neo4j client not connected")
	}
	result, err := neo4j.ExecuteQuery(ctx, g.client.Driver, personCypher, map[string]any{"email": strings.TrimSpace(email)},
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(g.client.Database))
	if err != nil {
		return types.Person{}, false, err
	}
	if len(result.Records) == 0 {
		return types.Person{}, false, nil
	}
	p, err := personFromRecord(result.Records[0])
	if err != nil {
		return types.Person{}, false, err
	}
	return p, true, nil
}

func personFromRecord(rec *neo4j.Record) (types.Person, error) {
	addr, _, err := neo4j.GetRecordValue[string](rec, "email")
	if err != nil {
		return types.Person{}, err
	}
	name, _, err := neo4j.GetRecordValue[string](rec, "name")
	if err != nil {
		return types.Person{}, err
	}
	return types.Person{Email: addr, Name: name}, nil
}
