// Package suggestions remembers previously entered field values and offers
// them back for reuse, ranked by how often and how recently they were used.
package suggestions

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/cv-maker/internal/metrics"
	"github.com/jonathan/cv-maker/internal/storage"
	"github.com/jonathan/cv-maker/internal/types"
)

// Persisted blob location and format version. A stored blob with any other
// version is discarded on load.
const (
	StorageKey     = "cv-maker-suggestions"
	StorageVersion = 1
)

type blob struct {
	Suggestions []types.FieldSuggestion `json:"suggestions"`
}

// Store is the deduplicating suggestion memory. Values are identified by
// the case-insensitive (value, fieldType, sectionType) triple. Every
// mutation is written through to the KV backend; write failures are logged
// and never undo the in-memory change.
type Store struct {
	mu       sync.RWMutex
	kv       storage.KV
	logger   zerolog.Logger
	now      func() time.Time
	timeout  time.Duration
	seedDemo bool
	items    []types.FieldSuggestion
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) Option { return func(s *Store) { s.timeout = d } }

// WithDemoSeed populates a handful of header suggestions when nothing has been stored yet.
func WithDemoSeed(enabled bool) Option { return func(s *Store) { s.seedDemo = enabled } }

// NewStore creates an empty store over kv. Call Load to read persisted state.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		logger:  zerolog.Nop(),
		now:     time.Now,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted blob. A missing blob
// yields an empty store (or the demo seed); a corrupt blob or a version
// mismatch is logged and yields an empty store.
func (s *Store) Load(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var b blob
	err := storage.ReadVersioned(ctx, s.kv, StorageKey, StorageVersion, &b)

	s.mu.Lock()
	defer s.mu.Unlock()

	var mismatch *storage.VersionMismatchError
	switch {
	case err == nil:
		s.items = b.Suggestions
	case errors.Is(err, storage.ErrNotFound):
		s.items = nil
		if s.seedDemo {
			s.items = demoSuggestions(s.now())
			s.persistLocked(ctx)
		}
	case errors.As(err, &mismatch):
		s.logger.Warn().Int("found", mismatch.Found).Int("expected", mismatch.Expected).Msg("suggestions version mismatch, resetting")
		metrics.StoreReset("suggestions", "version")
		s.items = nil
	default:
		s.logger.Error().Err(err).Msg("failed to load suggestions, starting empty")
		metrics.StoreReset("suggestions", "corrupt")
		s.items = nil
	}
}

// Add records one use of value for the given field. A value that trims to
// empty is ignored. A case-insensitive match increments the existing entry;
// otherwise a new entry is created holding the trimmed value.
func (s *Store) Add(ctx context.Context, value, fieldType string, sectionType types.SectionType) (types.FieldSuggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	got, ok := s.addLocked(value, fieldType, sectionType)
	if ok {
		s.persistLocked(ctx)
	}
	return got, ok
}

// AddBulk adds each candidate in turn with Add's merge rule, so a value
// repeated within the batch is counted once per occurrence. It returns the
// number of candidates applied.
func (s *Store) AddBulk(ctx context.Context, candidates []types.SuggestionCandidate) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range candidates {
		if _, ok := s.addLocked(c.Value, c.FieldType, c.SectionType); ok {
			n++
		}
	}
	if n > 0 {
		s.persistLocked(ctx)
	}
	return n
}

func (s *Store) addLocked(value, fieldType string, sectionType types.SectionType) (types.FieldSuggestion, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return types.FieldSuggestion{}, false
	}
	now := s.now()
	key := types.SuggestionCandidate{Value: trimmed, FieldType: fieldType, SectionType: sectionType}.Key()

	for i := range s.items {
		if s.items[i].Candidate().Key() != key {
			continue
		}
		count := s.items[i].UseCount() + 1
		s.items[i].Metadata = &types.SuggestionMetadata{LastUsed: &now, UseCount: count}
		return s.items[i], true
	}

	created := types.FieldSuggestion{
		ID:          types.NewID(),
		Value:       trimmed,
		FieldType:   fieldType,
		SectionType: sectionType,
		Metadata:    &types.SuggestionMetadata{LastUsed: &now, UseCount: 1},
		CreatedAt:   now,
	}
	s.items = append(s.items, created)
	return created, true
}

// Remove deletes the suggestion with the given id. It reports false, and
// changes nothing, when no such suggestion exists.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(f types.FieldSuggestion) bool { return f.ID == id })
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.persistLocked(ctx)
	return true
}

// ForField returns the suggestions for one field, most used first, ties
// broken by most recent use (or creation when never used).
func (s *Store) ForField(fieldType string, sectionType types.SectionType) []types.FieldSuggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	probe := types.SuggestionCandidate{FieldType: fieldType, SectionType: sectionType}
	var out []types.FieldSuggestion
	for _, f := range s.items {
		if probe.SameField(f.FieldType, f.SectionType) {
			out = append(out, f)
		}
	}
	slices.SortStableFunc(out, func(a, b types.FieldSuggestion) int {
		if a.UseCount() != b.UseCount() {
			return b.UseCount() - a.UseCount()
		}
		return b.LastUsedOrCreated().Compare(a.LastUsedOrCreated())
	})
	return out
}

// Contains reports whether the store already holds the candidate's triple.
func (s *Store) Contains(c types.SuggestionCandidate) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := c.Key()
	for _, f := range s.items {
		if f.Candidate().Key() == key {
			return true
		}
	}
	return false
}

// All returns a copy of every suggestion in insertion order.
func (s *Store) All() []types.FieldSuggestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Count returns the number of stored suggestions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear empties the store.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items := s.items
	if items == nil {
		items = []types.FieldSuggestion{}
	}
	if err := storage.WriteVersioned(ctx, s.kv, StorageKey, StorageVersion, blob{Suggestions: items}); err != nil {
		s.logger.Error().Err(err).Msg("failed to save suggestions")
		metrics.PersistenceError("suggestions", "write")
	}
}

func demoSuggestions(now time.Time) []types.FieldSuggestion {
	seed := []struct {
		value     string
		fieldType types.HeaderFieldType
		uses      int
	}{
		{"John Doe", types.FieldFullName, 5},
		{"Jane Smith", types.FieldFullName, 2},
		{"Senior Software Engineer", types.FieldJobPosition, 3},
		{"Frontend Developer", types.FieldJobPosition, 2},
		{"john@example.com", types.FieldEmail, 3},
		{"jane.smith@company.com", types.FieldEmail, 1},
	}
	out := make([]types.FieldSuggestion, len(seed))
	for i, d := range seed {
		used := now
		out[i] = types.FieldSuggestion{
			ID:          types.NewID(),
			Value:       d.value,
			FieldType:   string(d.fieldType),
			SectionType: types.SectionHeader,
			Metadata:    &types.SuggestionMetadata{LastUsed: &used, UseCount: d.uses},
			CreatedAt:   now,
		}
	}
	return out
}
