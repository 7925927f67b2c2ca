package source

import (
	"errors"
	"testing"

	"github.com/yungbote/mailgraph/internal/config"
	"github.com/yungbote/mailgraph/internal/platform/logger"
)

func TestFromConfig(t *testing.T) {
	cases := map[string]string{
		config.SourceSynthetic: "synthetic",
		"":                     "synthetic",
		config.SourceExchange:  "exchange",
		config.SourceIMAP:      "imap",
		config.SourceEML:       "eml",
	}
	for name, want := range cases {
		cfg := config.Defaults()
		cfg.Source = name
		cfg.Count = 4
		src, err := FromConfig(cfg, logger.NewNop())
		if err != nil {
			t.Fatalf("FromConfig(%q): %v", name, err)
		}
		if src.Name() != want {
			t.Fatalf("FromConfig(%q): want=%q got=%q", name, want, src.Name())
		}
	}
}

func TestFromConfigSyntheticCount(t *testing.T) {
	cfg := config.Defaults()
	cfg.Count = 7
	src, err := FromConfig(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	syn, ok := src.(*Synthetic)
	if !ok {
		t.Fatalf("expected *Synthetic, got=%T", src)
	}
	if syn.Len() != 7 {
		t.Fatalf("Len: want=7 got=%d", syn.Len())
	}
}

func TestFromConfigUnknown(t *testing.T) {
	cfg := config.Defaults()
	cfg.Source = "pst"
	_, err := FromConfig(cfg, logger.NewNop())
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != config.ConfigErrorUnknownSource {
		t.Fatalf("expected unknown source error, got=%v", err)
	}
}
