// Package memory implements the retrospective store as an in-memory map
// backed by a single JSON blob on disk, the local-storage equivalent of the
// hosted backends. The whole record set lives under one fixed storage key
// file and is rewritten after every mutation.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"retro/internal/core"
)

// StorageKey is the fixed name of the serialized blob holding all records.
const StorageKey = "retrospectives"

type Store struct {
	mu    sync.Mutex
	path  string // empty for a purely in-memory store
	items map[string]core.Retrospective
}

// New returns an in-memory store with no disk persistence, for tests and
// throwaway runs.
func New() *Store {
	return &Store{items: make(map[string]core.Retrospective)}
}

// NewFromDir loads (or lazily creates) the JSON blob <dir>/retrospectives.json
// and persists back to it after each mutation.
func NewFromDir(dir string) (*Store, error) {
	s := &Store{
		path:  filepath.Join(dir, StorageKey+".json"),
		items: make(map[string]core.Retrospective),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// record is the JSON shape of one retrospective in the blob, matching the
// column names of the database backends.
type record struct {
	ID         string      `json:"id"`
	Date       core.Date   `json:"date"`
	MonthIndex int         `json:"month_index"`
	DayCount   int         `json:"day_count"`
	Author     core.Author `json:"author"`
	Summary    string      `json:"summary"`
	Keep       string      `json:"keep"`
	Problem    string      `json:"problem"`
	Try        string      `json:"try"`
	Memo       string      `json:"memo,omitempty"`
	Feedback   string      `json:"feedback,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func toRecord(r core.Retrospective) record {
	return record{
		ID:         r.ID,
		Date:       r.Date,
		MonthIndex: r.MonthIndex,
		DayCount:   r.DayCount,
		Author:     r.Author,
		Summary:    r.Summary,
		Keep:       r.Keep,
		Problem:    r.Problem,
		Try:        r.Try,
		Memo:       r.Memo,
		Feedback:   r.Feedback,
		CreatedAt:  r.CreatedAt,
	}
}

func fromRecord(r record) core.Retrospective {
	return core.Retrospective{
		ID:         r.ID,
		Date:       r.Date,
		MonthIndex: r.MonthIndex,
		DayCount:   r.DayCount,
		Author:     r.Author,
		Summary:    r.Summary,
		Keep:       r.Keep,
		Problem:    r.Problem,
		Try:        r.Try,
		Memo:       r.Memo,
		Feedback:   r.Feedback,
		CreatedAt:  r.CreatedAt,
	}
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	for _, r := range recs {
		s.items[r.ID] = fromRecord(r)
	}
	return nil
}

// persist rewrites the blob atomically (temp file + rename). Caller holds
// the lock.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	records := make([]core.Retrospective, 0, len(s.items))
	for _, r := range s.items {
		records = append(records, r)
	}
	core.SortNewestFirst(records)
	recs := make([]record, len(records))
	for i, r := range records {
		recs[i] = toRecord(r)
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) List(_ context.Context) ([]core.Retrospective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Retrospective, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	core.SortNewestFirst(out)
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (*core.Retrospective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *Store) Insert(_ context.Context, rec core.Retrospective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[rec.ID]; exists {
		return fmt.Errorf("duplicate id %s", rec.ID)
	}
	s.items[rec.ID] = rec
	if err := s.persist(); err != nil {
		delete(s.items, rec.ID)
		return err
	}
	return nil
}

func (s *Store) Update(_ context.Context, id string, patch core.Patch) (*core.Retrospective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	updated := patch.Apply(existing)
	s.items[id] = updated
	if err := s.persist(); err != nil {
		s.items[id] = existing
		return nil, err
	}
	return &updated, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[id]
	if !ok {
		return core.ErrNotFound
	}
	delete(s.items, id)
	if err := s.persist(); err != nil {
		s.items[id] = existing
		return err
	}
	return nil
}
