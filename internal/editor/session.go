// Package editor owns the single CV being edited. A Session serializes
// every mutation, runs the drag gesture, and coordinates the template and
// suggestion stores around template saves.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/jonathan/cv-maker/internal/metrics"
	"github.com/jonathan/cv-maker/internal/ordering"
	"github.com/jonathan/cv-maker/internal/suggestions"
	"github.com/jonathan/cv-maker/internal/templates"
	"github.com/jonathan/cv-maker/internal/types"
)

// Change reasons published to subscribers.
const (
	ReasonReplace        = "replace"
	ReasonSection        = "section"
	ReasonSettings       = "settings"
	ReasonReorder        = "reorder"
	ReasonTemplateSelect = "template_select"
)

// Change is published after each committed mutation of the CV.
type Change struct {
	CV     types.CV
	Reason string
	At     time.Time
}

// Session is the one logical writer of the CV. It is safe for concurrent use.
type Session struct {
	mu   sync.Mutex
	cv   types.CV
	drag ordering.Drag

	suggestions *suggestions.Store
	templates   *templates.Store
	logger      zerolog.Logger
	now         func() time.Time

	subscribers map[int]chan Change
	nextSubID   int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.logger = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// NewSession starts editing the active template's CV, or a fresh default CV
// when no template is active. Both stores must already be loaded.
func NewSession(sugg *suggestions.Store, tmpl *templates.Store, opts ...Option) *Session {
	s := &Session{
		suggestions: sugg,
		templates:   tmpl,
		logger:      zerolog.Nop(),
		now:         time.Now,
		subscribers: make(map[int]chan Change),
	}
	for _, opt := range opts {
		opt(s)
	}

	if t, ok := tmpl.Active(); ok {
		s.cv = t.CV
		s.logger.Info().Str("template_id", t.ID).Str("template", t.Name).Msg("resuming active template")
	} else {
		s.cv = types.NewDefaultCV(s.now())
	}
	return s
}

// Suggestions returns the suggestion store the session feeds.
func (s *Session) Suggestions() *suggestions.Store { return s.suggestions }

// Templates returns the template store the session saves into.
func (s *Session) Templates() *templates.Store { return s.templates }

// CV returns a deep copy of the current CV.
func (s *Session) CV() types.CV {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cv.Clone()
}

// ReplaceCV swaps in a whole document. Orders are renormalized per zone.
// An in-progress drag is cancelled.
func (s *Session) ReplaceCV(cv types.CV) error {
	if err := cv.Validate(); err != nil {
		return &ContentError{Message: "invalid CV", Cause: err}
	}
	if err := checkContent(cv.Sections); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cv.Clone()
	next.Sections = ordering.Normalize(next.Sections)
	next.UpdatedAt = s.now()
	s.cv = next
	s.drag.Cancel()
	s.publishLocked(ReasonReplace)
	return nil
}

// UpdateSection replaces the data of section id. It returns false when no
// such section exists, and a *SectionTypeError when the variant differs.
func (s *Session) UpdateSection(id string, data types.SectionData) (bool, error) {
	if data == nil {
		return false, &ContentError{Message: "section data is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.cv.SectionByID(id)
	if !ok {
		return false, nil
	}
	if current.Type() != data.Type() {
		return false, &SectionTypeError{SectionID: id, Want: current.Type(), Got: data.Type()}
	}
	if err := checkData(data); err != nil {
		return false, err
	}

	s.cv.UpdateSection(id, data, s.now())
	s.cv = s.cv.Clone()
	s.publishLocked(ReasonSection)
	return true, nil
}

// UpdateSettings applies a partial settings update. An update that would
// leave invalid settings is rejected whole.
func (s *Session) UpdateSettings(patch types.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cv.Settings.Apply(patch).Validate(); err != nil {
		return &ContentError{Message: "invalid settings", Cause: err}
	}
	s.cv.UpdateSettings(patch, s.now())
	s.publishLocked(ReasonSettings)
	return nil
}

// StartDrag begins dragging section id. It returns false for an unknown id.
func (s *Session) StartDrag(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cv.SectionByID(id); !ok {
		return false
	}
	s.drag.Start(id)
	return true
}

// Dragging reports the section currently being dragged.
func (s *Session) Dragging() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Dragging()
}

// EndDrag drops the dragged section on target and reports whether the
// section list changed. The gesture ends either way.
func (s *Session) EndDrag(target ordering.Target) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sections, changed := s.drag.End(s.cv.Sections, target)
	if !changed {
		return false
	}
	s.cv.Sections = sections
	s.cv.UpdatedAt = s.now()
	s.publishLocked(ReasonReorder)
	return true
}

// CancelDrag abandons the gesture.
func (s *Session) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag.Cancel()
}

// SaveTemplate snapshots the current CV under name and makes it active. It
// returns the values of the CV the suggestion store does not know yet, for
// the user to confirm with ConfirmSuggestions.
func (s *Session) SaveTemplate(ctx context.Context, name string) (types.SavedTemplate, []types.SuggestionCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := suggestions.FilterNew(suggestions.Extract(s.cv), s.suggestions)
	t, err := s.templates.Save(ctx, name, s.cv)
	if err != nil {
		return types.SavedTemplate{}, nil, err
	}
	s.logger.Info().
		Str("template_id", t.ID).
		Str("template", t.Name).
		Int("new_suggestions", len(candidates)).
		Msg("saved template")
	return t, candidates, nil
}

// UpdateTemplate re-saves the current CV into template id, renaming it when
// name is non-nil. It returns nil, nil when no such template exists.
func (s *Session) UpdateTemplate(ctx context.Context, id string, name *string) (*types.SavedTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates.Update(ctx, id, s.cv, name)
}

// SelectTemplate loads the CV of template id into the session and marks the
// template active. It returns false when no such template exists.
func (s *Session) SelectTemplate(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates.Get(id)
	if !ok {
		return false
	}
	s.cv = t.CV
	s.drag.Cancel()
	s.templates.SetActive(ctx, id)
	s.publishLocked(ReasonTemplateSelect)
	return true
}

// NewTemplate clears the active template. The current CV stays in the
// editor so it can be saved under a new name.
func (s *Session) NewTemplate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates.SetActive(ctx, "")
}

// DeleteTemplate removes template id. The CV being edited is unaffected.
func (s *Session) DeleteTemplate(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates.Delete(ctx, id)
}

// ConfirmSuggestions adds the confirmed candidates to the suggestion store
// and returns how many were recorded.
func (s *Session) ConfirmSuggestions(ctx context.Context, candidates []types.SuggestionCandidate) int {
	n := s.suggestions.AddBulk(ctx, candidates)
	s.logger.Debug().Int("count", n).Msg("confirmed suggestions")
	return n
}

// Subscribe registers for change notifications. The channel holds at most
// the latest undelivered change. The returned func unsubscribes and closes
// the channel.
func (s *Session) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Change, 1)
	s.subscribers[id] = ch
	metrics.PreviewSubscribers(len(s.subscribers))

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
			metrics.PreviewSubscribers(len(s.subscribers))
		})
	}
}

// publishLocked sends the current CV to every subscriber, replacing a
// change the subscriber has not consumed yet. Never blocks.
func (s *Session) publishLocked(reason string) {
	if len(s.subscribers) == 0 {
		return
	}
	c := Change{CV: s.cv.Clone(), Reason: reason, At: s.cv.UpdatedAt}
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}

func checkContent(sections []types.Section) error {
	for _, sec := range sections {
		if err := checkData(sec.Data); err != nil {
			return err
		}
	}
	return nil
}

func checkData(data types.SectionData) error {
	if summary, ok := data.(types.SummarySection); ok {
		if n := utf8.RuneCountInString(summary.Content); n > types.SummaryMaxLength {
			return &ContentError{Message: fmt.Sprintf("summary is %d characters, limit is %d", n, types.SummaryMaxLength)}
		}
	}
	return nil
}
