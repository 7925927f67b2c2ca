package source

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/yungbote/mailgraph/internal/config"
	types "github.com/yungbote/mailgraph/internal/domain"
	"github.com/yungbote/mailgraph/internal/platform/logger"
)

type IMAP struct {
	cfg    config.IMAPConfig
	client IMAPClient
	log    *logger.Logger
	now    func() time.Time
	pass   singlePass
}

func NewIMAP(cfg config.IMAPConfig, client IMAPClient, log *logger.Logger) *IMAP {
	if client == nil {
		client = NewStandardIMAPClient()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &IMAP{cfg: cfg, client: client, log: log.With("source", "imap"), now: time.Now}
}

func (s *IMAP) Name() string { return "imap" }

func (s *IMAP) Exchanges(ctx context.Context) iter.Seq2[*types.ExchangeEvent, error] {
	return func(yield func(*types.ExchangeEvent, error) bool) {
		if !s.pass.claim() {
			consumed(yield)
			return
		}
		if err := s.client.Connect(s.cfg.Server); err != nil {
			yield(nil, &SourceError{Source: "imap", Op: "connect", Cause: err})
			return
		}
		defer func() {
			if err := s.client.Close(); err != nil {
				s.log.Warn("imap logout failed", "error", err)
			}
		}()
		if err := s.client.Login(s.cfg.User, s.cfg.Password); err != nil {
			yield(nil, &SourceError{Source: "imap", Op: "login", Cause: err})
			return
		}
		if err := s.client.SelectMailbox(s.cfg.Mailbox); err != nil {
			yield(nil, &SourceError{Source: "imap", Op: "select", Cause: err})
			return
		}

		var since time.Time
		if s.cfg.SinceHours > 0 {
			since = s.now().Add(-time.Duration(s.cfg.SinceHours) * time.Hour)
		}
		uids, err := s.client.SearchUIDs(since)
		if err != nil {
			yield(nil, &SourceError{Source: "imap", Op: "search", Cause: err})
			return
		}
		s.log.Info("imap mailbox selected", "mailbox", s.cfg.Mailbox, "messages", len(uids))

		for _, uid := range uids {
			if ctx != nil && ctx.Err() != nil {
				yield(nil, &SourceError{Source: "imap", Op: "fetch", Cause: ctx.Err()})
				return
			}
			body, err := s.client.FetchHeader(uid)
			if err != nil {
				if !yield(nil, fmt.Errorf("imap uid %d: %w", uid, err)) {
					return
				}
				continue
			}
			ev, err := ParseMessage(body)
			if err != nil {
				if !yield(nil, fmt.Errorf("imap uid %d: %w", uid, err)) {
					return
				}
				continue
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}
