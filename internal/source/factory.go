package source

import (
	"github.com/yungbote/mailgraph/internal/config"
	"github.com/yungbote/mailgraph/internal/platform/logger"
)

// FromConfig picks the source variant named by cfg.Source.
func FromConfig(cfg config.Config, log *logger.Logger) (Source, error) {
	switch cfg.Source {
	case "", config.SourceSynthetic:
		syn := NewSynthetic(cfg.Count, nil)
		if log != nil {
			log.Info("synthetic source ready", "events", syn.Len())
		}
		return syn, nil
	case config.SourceExchange:
		return NewExchange(), nil
	case config.SourceIMAP:
		return NewIMAP(cfg.IMAP, nil, log), nil
	case config.SourceEML:
		return NewMailDir(cfg.EMLDir), nil
	default:
		return nil, &config.ConfigError{Code: config.ConfigErrorUnknownSource, Value: cfg.Source}
	}
}
