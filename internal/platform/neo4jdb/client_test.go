package neo4jdb

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/mailgraph/internal/config"
	"github.com/yungbote/mailgraph/internal/platform/logger"
)

func TestNewRequiresLogger(t *testing.T) {
	_, err := New(context.Background(), config.Neo4jConfig{URI: "bolt://localhost:7687"}, nil)
	if err == nil || !strings.Contains(err.Error(), "logger required") {
		t.Fatalf("expected logger error, got=%v", err)
	}
}

func TestNewRequiresURI(t *testing.T) {
	_, err := New(context.Background(), config.Neo4jConfig{}, logger.NewNop())
	if err == nil || !strings.Contains(err.Error(), "uri required") {
		t.Fatalf("expected uri error, got=%v", err)
	}
}

func TestNewRejectsUnsupportedScheme(t *testing.T) {
	_, err := New(context.Background(), config.Neo4jConfig{URI: "ftp://localhost:7687"}, logger.NewNop())
	if err == nil || !strings.Contains(err.Error(), "init driver") {
		t.Fatalf("expected init driver error, got=%v", err)
	}
}

func TestCloseNilSafe(t *testing.T) {
	var c *Client
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close(nil): %v", err)
	}
	if err := (&Client{}).Close(context.Background()); err != nil {
		t.Fatalf("Close(empty): %v", err)
	}
}
