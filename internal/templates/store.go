// Package templates stores named snapshots of complete CVs and tracks which
// one the session is currently editing.
package templates

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jonathan/cv-maker/internal/metrics"
	"github.com/jonathan/cv-maker/internal/storage"
	"github.com/jonathan/cv-maker/internal/types"
)

// Persisted blob location and format version.
const (
	StorageKey     = "cv-maker-templates"
	StorageVersion = 1
)

// MaxNameLength is the longest accepted name, in characters, after trimming.
const MaxNameLength = 50

type blob struct {
	Templates        []types.SavedTemplate `json:"templates"`
	ActiveTemplateID *string               `json:"activeTemplateId"`
}

type nameInput struct {
	Name string `validate:"required,max=50"`
}

// Store holds the saved templates and the active pointer. Every mutation is
// written through to the KV backend; write failures are logged and never
// undo the in-memory change.
type Store struct {
	mu        sync.RWMutex
	kv        storage.KV
	logger    zerolog.Logger
	now       func() time.Time
	timeout   time.Duration
	validate  *validator.Validate
	templates []types.SavedTemplate
	activeID  string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) Option { return func(s *Store) { s.timeout = d } }

// NewStore creates an empty store over kv. Call Load to read persisted state.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		logger:   zerolog.Nop(),
		now:      time.Now,
		timeout:  5 * time.Second,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted blob. Missing,
// corrupt or version-mismatched blobs yield an empty store.
func (s *Store) Load(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var b blob
	err := storage.ReadVersioned(ctx, s.kv, StorageKey, StorageVersion, &b)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates, s.activeID = nil, ""

	var mismatch *storage.VersionMismatchError
	switch {
	case err == nil:
		s.templates = b.Templates
		if b.ActiveTemplateID != nil && s.indexLocked(*b.ActiveTemplateID) >= 0 {
			s.activeID = *b.ActiveTemplateID
		}
	case errors.Is(err, storage.ErrNotFound):
	case errors.As(err, &mismatch):
		s.logger.Warn().Int("found", mismatch.Found).Int("expected", mismatch.Expected).Msg("templates version mismatch, resetting")
		metrics.StoreReset("templates", "version")
	default:
		s.logger.Error().Err(err).Msg("failed to load templates, starting empty")
		metrics.StoreReset("templates", "corrupt")
	}
}

// Save snapshots cv under name and makes the new template active.
func (s *Store) Save(ctx context.Context, name string, cv types.CV) (types.SavedTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed, err := s.checkNameLocked(name, "")
	if err != nil {
		return types.SavedTemplate{}, err
	}

	now := s.now()
	snapshot := cv.Clone()
	snapshot.UpdatedAt = now
	t := types.SavedTemplate{
		ID:        types.NewID(),
		Name:      trimmed,
		CV:        snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.templates = append(s.templates, t)
	s.activeID = t.ID
	s.persistLocked(ctx)
	return t.Clone(), nil
}

// Update replaces the snapshot of template id and, when name is non-nil,
// renames it. The active pointer is not touched. It returns nil, nil when
// no such template exists.
func (s *Store) Update(ctx context.Context, id string, cv types.CV, name *string) (*types.SavedTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, nil
	}
	newName := s.templates[i].Name
	if name != nil {
		trimmed, err := s.checkNameLocked(*name, id)
		if err != nil {
			return nil, err
		}
		newName = trimmed
	}

	now := s.now()
	snapshot := cv.Clone()
	snapshot.UpdatedAt = now
	s.templates[i].Name = newName
	s.templates[i].CV = snapshot
	s.templates[i].UpdatedAt = now
	s.persistLocked(ctx)

	out := s.templates[i].Clone()
	return &out, nil
}

// Rename changes the name of template id. It returns nil, nil when no such
// template exists.
func (s *Store) Rename(ctx context.Context, id, name string) (*types.SavedTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, nil
	}
	trimmed, err := s.checkNameLocked(name, id)
	if err != nil {
		return nil, err
	}
	s.templates[i].Name = trimmed
	s.templates[i].UpdatedAt = s.now()
	s.persistLocked(ctx)

	out := s.templates[i].Clone()
	return &out, nil
}

// Delete removes template id. When it was active, the first remaining
// template becomes active, or none when the store is empty. It reports
// false when no such template exists.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.templates = slices.Delete(s.templates, i, i+1)
	if s.activeID == id {
		s.activeID = ""
		if len(s.templates) > 0 {
			s.activeID = s.templates[0].ID
		}
	}
	s.persistLocked(ctx)
	return true
}

// SetActive points the store at template id; "" clears the pointer. An
// unknown id is ignored and reported as false.
func (s *Store) SetActive(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.indexLocked(id) < 0 {
		return false
	}
	s.activeID = id
	s.persistLocked(ctx)
	return true
}

// Get returns a copy of template id.
func (s *Store) Get(id string) (types.SavedTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return types.SavedTemplate{}, false
	}
	return s.templates[i].Clone(), true
}

// Active returns a copy of the active template, if any.
func (s *Store) Active() (types.SavedTemplate, bool) {
	s.mu.RLock()
	id := s.activeID
	s.mu.RUnlock()
	if id == "" {
		return types.SavedTemplate{}, false
	}
	return s.Get(id)
}

// ActiveID returns the active template id, or "" when none is active.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// List returns copies of all templates in creation order.
func (s *Store) List() []types.SavedTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.SavedTemplate, len(s.templates))
	for i, t := range s.templates {
		out[i] = t.Clone()
	}
	return out
}

// Clear removes every template and the active pointer.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates, s.activeID = nil, ""
	s.persistLocked(ctx)
}

// ValidateName checks name as Save would, without saving.
func (s *Store) ValidateName(name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.checkNameLocked(name, "")
	return err
}

// checkNameLocked trims name and rejects empty, overlong or duplicate names.
// Uniqueness is case-sensitive; selfID is excluded so a template can keep
// its own name.
func (s *Store) checkNameLocked(name, selfID string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := s.validate.Struct(nameInput{Name: trimmed}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
			return "", &ValidationError{Message: "Template name is too long (max 50 characters)", Cause: ErrInvalidName}
		}
		return "", &ValidationError{Message: "Template name cannot be empty", Cause: ErrInvalidName}
	}
	for _, t := range s.templates {
		if t.ID != selfID && t.Name == trimmed {
			return "", &ValidationError{Message: "A template with this name already exists", Cause: ErrDuplicateName}
		}
	}
	return trimmed, nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.templates, func(t types.SavedTemplate) bool { return t.ID == id })
}

func (s *Store) persistLocked(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b := blob{Templates: s.templates}
	if b.Templates == nil {
		b.Templates = []types.SavedTemplate{}
	}
	if s.activeID != "" {
		id := s.activeID
		b.ActiveTemplateID = &id
	}
	if err := storage.WriteVersioned(ctx, s.kv, StorageKey, StorageVersion, b); err != nil {
		s.logger.Error().Err(err).Msg("failed to save templates")
		metrics.PersistenceError("templates", "write")
	}
}
