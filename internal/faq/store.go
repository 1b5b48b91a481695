// Package faq holds the static question/answer sets and the two matchers
// that run against them.
package faq

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	AudienceStaff   = "staff"
	AudienceVisitor = "visitor"
)

var ErrUnknownAudience = errors.New("unknown faq audience")

// Store loads audience-keyed FAQ files from a directory. Loads are not
// cached: every call re-reads the file so edits take effect without a
// restart.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load returns the question->answer mapping for the given audience.
func (s *Store) Load(audience string) (map[string]string, error) {
	if audience != AudienceStaff && audience != AudienceVisitor {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAudience, audience)
	}

	path := filepath.Join(s.dir, audience+"_faqs.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq file failed: %w", err)
	}

	var faqs map[string]string
	if err := json.Unmarshal(raw, &faqs); err != nil {
		return nil, fmt.Errorf("parse faq file %s failed: %w", path, err)
	}
	return faqs, nil
}

// sortedQuestions returns the question set in a stable order so matcher
// tie-breaks are deterministic across calls.
func sortedQuestions(faqs map[string]string) []string {
	questions := make([]string, 0, len(faqs))
	for q := range faqs {
		questions = append(questions, q)
	}
	sort.Strings(questions)
	return questions
}
