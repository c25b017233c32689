// Package suitefile loads suite catalogues from JSON files, for registry
// setup without a broker.
package suitefile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kolharsam/inc/internal/domain/harness"
	"github.com/kolharsam/inc/internal/ports"
)

type suiteDoc struct {
	Name  string    `json:"name"`
	Cases []caseDoc `json:"cases"`
}

type caseDoc struct {
	Expr     string `json:"expr"`
	Kind     string `json:"kind,omitempty"`
	Expected string `json:"expected"`
}

// Source implements ports.SuiteSource over a catalogue read from disk.
type Source struct {
	mu     sync.Mutex
	suites []harness.Suite
	index  int
}

var _ ports.SuiteSource = (*Source)(nil)

// Load reads an ordered JSON array of suites from path.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite file %s: %w", path, err)
	}

	var docs []suiteDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode suite file %s: %w", path, err)
	}

	suites := make([]harness.Suite, 0, len(docs))
	for _, doc := range docs {
		if doc.Name == "" {
			return nil, fmt.Errorf("suite file %s: suite missing name", path)
		}
		if len(doc.Cases) == 0 {
			return nil, fmt.Errorf("suite file %s: suite %q has no cases", path, doc.Name)
		}

		cases := make([]harness.TestCase, len(doc.Cases))
		for idx, c := range doc.Cases {
			kind := c.Kind
			if kind == "" {
				kind = string(harness.KindString)
			}
			cases[idx] = harness.TestCase{
				Expr:     c.Expr,
				Kind:     harness.OutputKind(kind),
				Expected: c.Expected,
			}
		}
		suites = append(suites, harness.Suite{Name: doc.Name, Cases: cases})
	}

	return &Source{suites: suites}, nil
}

// NextSuite returns the catalogue's suites in file order, then io.EOF.
func (s *Source) NextSuite(ctx context.Context) (harness.Suite, error) {
	select {
	case <-ctx.Done():
		return harness.Suite{}, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.suites) {
		return harness.Suite{}, io.EOF
	}

	suite := s.suites[s.index]
	s.index++
	return suite, nil
}

// Close is a no-op; the file is fully read at Load time.
func (s *Source) Close() error {
	return nil
}
