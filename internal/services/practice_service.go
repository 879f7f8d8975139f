package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/hinata/kanaflash/internal/engine"
	apperrors "github.com/hinata/kanaflash/internal/errors"
	"github.com/hinata/kanaflash/internal/logger"
	"github.com/hinata/kanaflash/internal/models"
	"github.com/hinata/kanaflash/internal/repository"
	"github.com/hinata/kanaflash/internal/security"
	"github.com/hinata/kanaflash/internal/worker"
)

// SubmitResult is the two-outcome answer of a submission: the evaluation
// (always present) and the persistence outcome (Persisted=false when the
// counter update is still pending a background retry).
type SubmitResult struct {
	Correct         bool             `json:"correct"`
	Character       models.Character `json:"character"`
	Attempts        int              `json:"attempts"`
	CorrectAttempts int              `json:"correct_attempts"`
	Accuracy        float64          `json:"accuracy"`
	Persisted       bool             `json:"persisted"`
	Session         engine.Snapshot  `json:"session"`
}

// PracticeService owns the live practice sessions and maps user intents
// onto engine operations.
type PracticeService interface {
	StartSession(ctx context.Context, userID string, kanaType models.KanaType, mode engine.Mode) (string, engine.Snapshot, error)
	GetSession(ctx context.Context, userID, sessionID string) (engine.Snapshot, error)
	SubmitAnswer(ctx context.Context, userID, sessionID, answer string) (*SubmitResult, error)
	NextCard(ctx context.Context, userID, sessionID string) (engine.Snapshot, error)
	SetMode(ctx context.Context, userID, sessionID string, mode engine.Mode) (engine.Snapshot, error)
	EndSession(ctx context.Context, userID, sessionID string) error
	EvictIdle(maxIdle time.Duration) int
}

type liveSession struct {
	session  *engine.Session
	userID   string
	lastSeen time.Time
}

type practiceService struct {
	characters  repository.CharacterRepository
	accuracy    repository.AccuracyRepository
	retryPool   *worker.Pool
	choiceCount int

	mu       sync.Mutex
	sessions map[string]*liveSession
}

// NewPracticeService creates a new PracticeService. retryPool may be nil,
// in which case failed accuracy updates are dropped after the immediate
// attempt.
func NewPracticeService(characters repository.CharacterRepository, accuracy repository.AccuracyRepository, retryPool *worker.Pool, choiceCount int) PracticeService {
	if choiceCount < 2 {
		choiceCount = engine.DefaultChoiceCount
	}
	return &practiceService{
		characters:  characters,
		accuracy:    accuracy,
		retryPool:   retryPool,
		choiceCount: choiceCount,
		sessions:    make(map[string]*liveSession),
	}
}

// accuracyStore adapts the repository to the engine's store contract.
type accuracyStore struct {
	repo repository.AccuracyRepository
}

func (a accuracyStore) FetchAccuracy(ctx context.Context, userID string, characterIDs []int64) (map[int64]models.AccuracyRecord, error) {
	return a.repo.FetchAccuracy(ctx, userID, characterIDs)
}

func (a accuracyStore) UpsertAccuracy(ctx context.Context, userID string, characterID int64, correct bool) (models.AccuracyRecord, error) {
	return a.repo.Upsert(ctx, userID, characterID, correct)
}

func (s *practiceService) StartSession(ctx context.Context, userID string, kanaType models.KanaType, mode engine.Mode) (string, engine.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting practice session: kana_type=%s, mode=%s", kanaType, mode)

	sess, err := engine.NewSession(userID, kanaType, mode, s.characters, accuracyStore{repo: s.accuracy},
		engine.WithChoiceCount(s.choiceCount))
	if err != nil {
		return "", engine.Snapshot{}, mapEngineError(err)
	}

	if err := sess.LoadCatalog(ctx); err != nil {
		log.Error("failed to load catalog: %v", err)
		return "", engine.Snapshot{}, mapEngineError(err)
	}

	id := security.GenerateSessionID()
	s.mu.Lock()
	s.sessions[id] = &liveSession{session: sess, userID: userID, lastSeen: time.Now()}
	s.mu.Unlock()

	log.Info("practice session started: id=%s, kana_type=%s", id, kanaType)
	return id, sess.Snapshot(), nil
}

func (s *practiceService) GetSession(ctx context.Context, userID, sessionID string) (engine.Snapshot, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *practiceService) SubmitAnswer(ctx context.Context, userID, sessionID, answer string) (*SubmitResult, error) {
	log := logger.FromContext(ctx)

	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	ev, err := sess.SubmitAnswer(ctx, answer)
	if err != nil {
		return nil, mapEngineError(err)
	}

	result := &SubmitResult{
		Correct:         ev.Correct,
		Character:       ev.Character,
		Attempts:        ev.Record.Attempts,
		CorrectAttempts: ev.Record.CorrectAttempts,
		Accuracy:        ev.Record.Accuracy,
		Persisted:       ev.PersistErr == nil,
		Session:         sess.Snapshot(),
	}

	if ev.PersistErr != nil {
		// The learner already has the evaluation; flush the counters in the
		// background instead of failing the request.
		log.Warn("accuracy update failed, scheduling retry: %v", ev.PersistErr)
		if s.retryPool != nil {
			s.retryPool.TrySubmit(&worker.AccuracyRetryJob{
				Accuracy:    s.accuracy,
				UserID:      userID,
				CharacterID: ev.Character.ID,
				Correct:     ev.Correct,
			})
		}
	}
	return result, nil
}

func (s *practiceService) NextCard(ctx context.Context, userID, sessionID string) (engine.Snapshot, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	if err := sess.NextCard(); err != nil {
		return engine.Snapshot{}, mapEngineError(err)
	}
	return sess.Snapshot(), nil
}

func (s *practiceService) SetMode(ctx context.Context, userID, sessionID string, mode engine.Mode) (engine.Snapshot, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return engine.Snapshot{}, err
	}
	if err := sess.SetMode(mode); err != nil {
		return engine.Snapshot{}, mapEngineError(err)
	}
	return sess.Snapshot(), nil
}

func (s *practiceService) EndSession(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, ok := s.sessions[sessionID]
	if !ok || live.userID != userID {
		return apperrors.NewNotFoundError("practice session", sessionID)
	}
	delete(s.sessions, sessionID)
	return nil
}

// EvictIdle drops sessions not touched within maxIdle and returns how many
// were removed. In-flight persistence retries are unaffected.
func (s *practiceService) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted int
	for id, live := range s.sessions {
		if live.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Default().Info("evicted %d idle practice sessions", evicted)
	}
	return evicted
}

func (s *practiceService) lookup(userID, sessionID string) (*engine.Session, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthenticatedError("")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live, ok := s.sessions[sessionID]
	if !ok || live.userID != userID {
		// A session belonging to someone else is indistinguishable from a
		// missing one.
		return nil, apperrors.NewNotFoundError("practice session", sessionID)
	}
	live.lastSeen = time.Now()
	return live.session, nil
}

// mapEngineError translates engine errors into the application taxonomy so
// callers can tell "could not load" from "could not save" from "bad input".
func mapEngineError(err error) error {
	var catalogErr *engine.CatalogError
	switch {
	case stderrors.As(err, &catalogErr):
		return apperrors.NewCatalogUnavailableError(catalogErr.Err)
	case stderrors.Is(err, engine.ErrEmptyCatalog):
		return apperrors.NewEmptyCatalogError()
	case stderrors.Is(err, engine.ErrEmptyAnswer):
		return apperrors.NewEmptyAnswerError()
	case stderrors.Is(err, engine.ErrSubmissionInFlight):
		return apperrors.NewSubmitInFlightError()
	case stderrors.Is(err, engine.ErrUnauthenticated):
		return apperrors.NewUnauthenticatedError("")
	case stderrors.Is(err, engine.ErrInvalidMode):
		return apperrors.NewValidationError("mode", "must be typing or multiple-choice")
	case stderrors.Is(err, engine.ErrInvalidKanaType):
		return apperrors.NewValidationError("kana_type", "must be hiragana or katakana")
	case stderrors.Is(err, engine.ErrNotLoaded):
		return apperrors.NewBadRequestError("practice session has no catalog loaded")
	default:
		return apperrors.NewInternalError(err)
	}
}
