package source

import (
	"fmt"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// IMAPClient is the subset of an IMAP session the mailbox source needs.
type IMAPClient interface {
	Connect(server string) error
	Login(user, password string) error
	SelectMailbox(name string) error
	SearchUIDs(since time.Time) ([]uint32, error)
	FetchHeader(uid uint32) (imap.Literal, error)
	Close() error
}

// headerSection is BODY.PEEK[HEADER]: fetching it leaves \Seen untouched.
var headerSection = &imap.BodySectionName{
	BodyPartName: imap.BodyPartName{Specifier: imap.HeaderSpecifier},
	Peek:         true,
}

type StandardIMAPClient struct {
	client  *client.Client
	timeout time.Duration
}

func NewStandardIMAPClient() *StandardIMAPClient {
	return &StandardIMAPClient{timeout: 30 * time.Second}
}

func (c *StandardIMAPClient) Connect(server string) error {
	cl, err := client.DialTLS(server, nil)
	if err != nil {
		return fmt.Errorf("imap dial: %w", err)
	}
	cl.Timeout = c.timeout
	c.client = cl
	return nil
}

func (c *StandardIMAPClient) Login(user, password string) error {
	if c.client == nil {
		return fmt.Errorf("imap: not connected")
	}
	return c.client.Login(user, password)
}

func (c *StandardIMAPClient) SelectMailbox(name string) error {
	if c.client == nil {
		return fmt.Errorf("imap: not connected")
	}
	_, err := c.client.Select(name, true)
	return err
}

// SearchUIDs lists every message UID, or only those received since the given
// time when it is non-zero.
func (c *StandardIMAPClient) SearchUIDs(since time.Time) ([]uint32, error) {
	if c.client == nil {
		return nil, fmt.Errorf("imap: not connected")
	}
	criteria := imap.NewSearchCriteria()
	if !since.IsZero() {
		criteria.Since = since
	}
	uids, err := c.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	return uids, nil
}

func (c *StandardIMAPClient) FetchHeader(uid uint32) (imap.Literal, error) {
	if c.client == nil {
		return nil, fmt.Errorf("imap: not connected")
	}
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)
	items := []imap.FetchItem{headerSection.FetchItem(), imap.FetchUid}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.client.UidFetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch uid %d: %w", uid, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("imap fetch uid %d: no message", uid)
	}
	body := msg.GetBody(headerSection)
	if body == nil {
		return nil, fmt.Errorf("imap fetch uid %d: header not returned", uid)
	}
	return body, nil
}

func (c *StandardIMAPClient) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Logout()
	c.client = nil
	return err
}
