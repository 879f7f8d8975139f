// Package engine owns a single learner's practice session: weighted
// selection of the next character, multiple-choice distractor generation,
// answer evaluation and accuracy bookkeeping. Catalog and accuracy data
// come from external collaborators behind small interfaces.
package engine

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hinata/kanaflash/internal/models"
)

// CharacterSource supplies the character set for a kana type.
type CharacterSource interface {
	FetchCatalog(ctx context.Context, kanaType models.KanaType) ([]models.Character, error)
}

// AccuracyStore supplies and persists per-user accuracy records. Missing
// entries imply a zero baseline; UpsertAccuracy is atomic per
// (user, character) pair.
type AccuracyStore interface {
	FetchAccuracy(ctx context.Context, userID string, characterIDs []int64) (map[int64]models.AccuracyRecord, error)
	UpsertAccuracy(ctx context.Context, userID string, characterID int64, correct bool) (models.AccuracyRecord, error)
}

// Mode is the interaction mode of a practice session.
type Mode string

const (
	ModeTyping         Mode = "typing"
	ModeMultipleChoice Mode = "multiple-choice"
)

// Valid reports whether m names a known interaction mode.
func (m Mode) Valid() bool {
	return m == ModeTyping || m == ModeMultipleChoice
}

// Outcome is the result of the most recent submission.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// CatalogEntry is a character annotated with the learner's current accuracy.
type CatalogEntry struct {
	models.Character
	Accuracy float64 `json:"accuracy"`
}

// Snapshot is the session state handed to the presentation layer after
// every operation.
type Snapshot struct {
	KanaType   models.KanaType `json:"kana_type"`
	Mode       Mode            `json:"mode"`
	Catalog    []CatalogEntry  `json:"catalog"`
	Current    *CatalogEntry   `json:"current"`
	Choices    []string        `json:"choices"`
	LastResult Outcome         `json:"last_result,omitempty"`
}

// Evaluation is the result of a submission. The evaluation itself is always
// present; PersistErr is set when the counter update did not reach the
// store, as a secondary non-fatal condition the caller can retry.
type Evaluation struct {
	Character  models.Character      `json:"character"`
	Correct    bool                  `json:"correct"`
	Record     models.AccuracyRecord `json:"record"`
	PersistErr error                 `json:"-"`
}

// Session is one learner's in-memory practice state. It is rebuilt and
// mutated only through the methods below and discarded when the practice
// screen goes away.
type Session struct {
	mu sync.Mutex

	userID   string
	kanaType models.KanaType
	mode     Mode

	catalog    []CatalogEntry
	currentIdx int
	choices    []string
	lastResult Outcome

	loaded     bool
	submitting bool

	choiceCount int
	rng         *rand.Rand
	source      CharacterSource
	store       AccuracyStore
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRand sets the random source, mainly for tests.
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = rng }
}

// WithChoiceCount sets the multiple-choice answer-set size.
func WithChoiceCount(n int) SessionOption {
	return func(s *Session) {
		if n >= 2 {
			s.choiceCount = n
		}
	}
}

// NewSession creates a session for the given (already validated) user
// identity. An empty userID fails closed with ErrUnauthenticated.
func NewSession(userID string, kanaType models.KanaType, mode Mode, source CharacterSource, store AccuracyStore, opts ...SessionOption) (*Session, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if !kanaType.Valid() {
		return nil, ErrInvalidKanaType
	}
	if mode == "" {
		mode = ModeTyping
	}
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	s := &Session{
		userID:      userID,
		kanaType:    kanaType,
		mode:        mode,
		currentIdx:  -1,
		choiceCount: DefaultChoiceCount,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		source:      source,
		store:       store,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LoadCatalog fetches the character set for the session's kana type and
// attaches each character's known accuracy (zero when never attempted).
// Stored accuracy values are surfaced verbatim. On failure the session is
// left untouched and the error is retryable.
func (s *Session) LoadCatalog(ctx context.Context) error {
	chars, err := s.source.FetchCatalog(ctx, s.kanaType)
	if err != nil {
		return &CatalogError{Err: err}
	}

	ids := make([]int64, len(chars))
	for i, c := range chars {
		ids[i] = c.ID
	}
	records, err := s.store.FetchAccuracy(ctx, s.userID, ids)
	if err != nil {
		return &CatalogError{Err: err}
	}

	catalog := make([]CatalogEntry, len(chars))
	for i, c := range chars {
		catalog[i] = CatalogEntry{Character: c, Accuracy: records[c.ID].Accuracy}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = catalog
	s.loaded = true
	s.currentIdx = -1
	s.lastResult = ""
	s.choices = nil

	if len(catalog) == 0 {
		return nil
	}
	first, err := SelectNext(s.catalog, s.rng, 0)
	if err != nil {
		return err
	}
	s.setCurrentLocked(first.ID)
	if s.mode == ModeMultipleChoice {
		s.regenerateChoicesLocked()
	}
	return nil
}

// SubmitAnswer evaluates the raw input against the current character and
// records the attempt. The evaluation is returned even when persistence
// fails; a concurrent second submit is rejected, never double-counted.
func (s *Session) SubmitAnswer(ctx context.Context, raw string) (Evaluation, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return Evaluation{}, ErrNotLoaded
	}
	if s.currentIdx < 0 {
		s.mu.Unlock()
		if len(s.catalog) == 0 {
			return Evaluation{}, ErrEmptyCatalog
		}
		return Evaluation{}, ErrNotLoaded
	}
	if s.submitting {
		s.mu.Unlock()
		return Evaluation{}, ErrSubmissionInFlight
	}
	answer := normalize(raw)
	if answer == "" {
		s.mu.Unlock()
		return Evaluation{}, ErrEmptyAnswer
	}
	current := s.catalog[s.currentIdx]
	s.submitting = true
	s.mu.Unlock()

	correct := answer == current.Romaji
	record, err := s.store.UpsertAccuracy(ctx, s.userID, current.ID, correct)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if correct {
		s.lastResult = OutcomeCorrect
	} else {
		s.lastResult = OutcomeIncorrect
	}

	ev := Evaluation{Character: current.Character, Correct: correct}
	if err != nil {
		ev.PersistErr = &PersistenceError{Err: err}
		return ev, nil
	}
	ev.Record = record
	for i := range s.catalog {
		if s.catalog[i].ID == current.ID {
			s.catalog[i].Accuracy = record.Accuracy
		}
	}
	return ev, nil
}

// NextCard clears the last result and advances to a new character, softly
// excluding the one just shown. Choices are regenerated in multiple-choice
// mode. The catalog is not re-fetched.
func (s *Session) NextCard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNotLoaded
	}
	if s.submitting {
		return ErrSubmissionInFlight
	}

	var exclude int64
	if s.currentIdx >= 0 {
		exclude = s.catalog[s.currentIdx].ID
	}
	next, err := SelectNext(s.catalog, s.rng, exclude)
	if err != nil {
		return err
	}
	s.lastResult = ""
	s.setCurrentLocked(next.ID)
	if s.mode == ModeMultipleChoice {
		s.regenerateChoicesLocked()
	}
	return nil
}

// SetMode switches between typing and multiple-choice. Switching into
// multiple-choice (re)generates choices for the current character;
// switching to typing clears them. Current character and last result are
// untouched.
func (s *Session) SetMode(mode Mode) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.mode
	s.mode = mode
	switch mode {
	case ModeTyping:
		s.choices = nil
	case ModeMultipleChoice:
		if prev != ModeMultipleChoice || len(s.choices) == 0 {
			s.regenerateChoicesLocked()
		}
	}
	return nil
}

// Snapshot returns a copy of the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		KanaType:   s.kanaType,
		Mode:       s.mode,
		Catalog:    append([]CatalogEntry(nil), s.catalog...),
		Choices:    append([]string(nil), s.choices...),
		LastResult: s.lastResult,
	}
	if s.currentIdx >= 0 {
		current := s.catalog[s.currentIdx]
		snap.Current = &current
	}
	return snap
}

// UserID returns the opaque identity the session operates for.
func (s *Session) UserID() string { return s.userID }

func (s *Session) setCurrentLocked(id int64) {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			s.currentIdx = i
			return
		}
	}
	s.currentIdx = -1
}

func (s *Session) regenerateChoicesLocked() {
	if s.currentIdx < 0 {
		s.choices = nil
		return
	}
	s.choices = GenerateChoices(s.catalog, s.catalog[s.currentIdx].Romaji, s.choiceCount, s.rng)
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
