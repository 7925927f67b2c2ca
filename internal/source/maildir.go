package source

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	types "github.com/yungbote/mailgraph/internal/domain"
)

// MailDir reads every *.eml file under a directory tree, in path order.
type MailDir struct {
	dir  string
	pass singlePass
}

func NewMailDir(dir string) *MailDir {
	return &MailDir{dir: dir}
}

func (s *MailDir) Name() string { return "eml" }

func (s *MailDir) Exchanges(ctx context.Context) iter.Seq2[*types.ExchangeEvent, error] {
	return func(yield func(*types.ExchangeEvent, error) bool) {
		if !s.pass.claim() {
			consumed(yield)
			return
		}
		paths, err := s.list()
		if err != nil {
			yield(nil, &SourceError{Source: "eml", Op: "list", Cause: err})
			return
		}
		for _, p := range paths {
			ev, err := parseFile(p)
			if err != nil {
				if !yield(nil, err) {
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

func (s *MailDir) list() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".eml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func parseFile(path string) (*types.ExchangeEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	ev, err := ParseMessage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ev, nil
}
