package engine_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hinata/kanaflash/internal/engine"
	"github.com/hinata/kanaflash/internal/models"
)

type fakeSource struct {
	chars []models.Character
	err   error
}

func (f *fakeSource) FetchCatalog(ctx context.Context, kanaType models.KanaType) ([]models.Character, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chars, nil
}

type fakeStore struct {
	mu         sync.Mutex
	records    map[int64]models.AccuracyRecord
	fetchErr   error
	upsertErr  error
	upserts    int
	blockEnter chan struct{}
	blockWait  chan struct{}
}

func (f *fakeStore) FetchAccuracy(ctx context.Context, userID string, characterIDs []int64) (map[int64]models.AccuracyRecord, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := map[int64]models.AccuracyRecord{}
	for _, id := range characterIDs {
		if r, ok := f.records[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertAccuracy(ctx context.Context, userID string, characterID int64, correct bool) (models.AccuracyRecord, error) {
	if f.blockEnter != nil {
		f.blockEnter <- struct{}{}
		<-f.blockWait
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.upsertErr != nil {
		return models.AccuracyRecord{}, f.upsertErr
	}

	if f.records == nil {
		f.records = map[int64]models.AccuracyRecord{}
	}
	r := f.records[characterID]
	r.UserID = userID
	r.CharacterID = characterID
	r.Attempts++
	if correct {
		r.CorrectAttempts++
	}
	r.Accuracy = float64(r.CorrectAttempts) / float64(r.Attempts)
	f.records[characterID] = r
	return r, nil
}

func testChars() []models.Character {
	return []models.Character{
		{ID: 1, KanaType: models.KanaHiragana, Glyph: "あ", Romaji: "a", SortOrder: 1},
		{ID: 2, KanaType: models.KanaHiragana, Glyph: "い", Romaji: "i", SortOrder: 2},
		{ID: 3, KanaType: models.KanaHiragana, Glyph: "う", Romaji: "u", SortOrder: 3},
	}
}

func newTestSession(t *testing.T, source *fakeSource, store *fakeStore, mode engine.Mode) *engine.Session {
	t.Helper()
	sess, err := engine.NewSession("user-1", models.KanaHiragana, mode, source, store,
		engine.WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	return sess
}

func TestNewSession_RequiresUser(t *testing.T) {
	_, err := engine.NewSession("", models.KanaHiragana, engine.ModeTyping, &fakeSource{}, &fakeStore{})
	assert.ErrorIs(t, err, engine.ErrUnauthenticated)
}

func TestNewSession_ValidatesKanaType(t *testing.T) {
	_, err := engine.NewSession("user-1", "kanji", engine.ModeTyping, &fakeSource{}, &fakeStore{})
	assert.ErrorIs(t, err, engine.ErrInvalidKanaType)
}

func TestNewSession_ValidatesMode(t *testing.T) {
	_, err := engine.NewSession("user-1", models.KanaHiragana, "oral", &fakeSource{}, &fakeStore{})
	assert.ErrorIs(t, err, engine.ErrInvalidMode)
}

func TestNewSession_DefaultsToTyping(t *testing.T) {
	sess, err := engine.NewSession("user-1", models.KanaHiragana, "", &fakeSource{}, &fakeStore{})
	require.NoError(t, err)
	assert.Equal(t, engine.ModeTyping, sess.Snapshot().Mode)
}

func TestLoadCatalog_AttachesStoredAccuracyVerbatim(t *testing.T) {
	store := &fakeStore{records: map[int64]models.AccuracyRecord{
		// Deliberately inconsistent with its counters; the stored value is
		// what the learner sees.
		2: {CharacterID: 2, Attempts: 10, CorrectAttempts: 2, Accuracy: 0.9},
	}}
	sess := newTestSession(t, &fakeSource{chars: testChars()}, store, engine.ModeTyping)

	require.NoError(t, sess.LoadCatalog(context.Background()))

	snap := sess.Snapshot()
	require.Len(t, snap.Catalog, 3)
	assert.Equal(t, 0.0, snap.Catalog[0].Accuracy)
	assert.Equal(t, 0.9, snap.Catalog[1].Accuracy)
	require.NotNil(t, snap.Current)
}

func TestLoadCatalog_SourceFailure(t *testing.T) {
	cause := errors.New("disk gone")
	sess := newTestSession(t, &fakeSource{err: cause}, &fakeStore{}, engine.ModeTyping)

	err := sess.LoadCatalog(context.Background())
	var catalogErr *engine.CatalogError
	require.ErrorAs(t, err, &catalogErr)
	assert.ErrorIs(t, err, cause)

	_, err = sess.SubmitAnswer(context.Background(), "a")
	assert.ErrorIs(t, err, engine.ErrNotLoaded)
}

func TestLoadCatalog_EmptyCatalog(t *testing.T) {
	sess := newTestSession(t, &fakeSource{chars: nil}, &fakeStore{}, engine.ModeTyping)

	require.NoError(t, sess.LoadCatalog(context.Background()))
	assert.Nil(t, sess.Snapshot().Current)

	_, err := sess.SubmitAnswer(context.Background(), "a")
	assert.ErrorIs(t, err, engine.ErrEmptyCatalog)
}

func TestSubmitAnswer_NormalizesInput(t *testing.T) {
	store := &fakeStore{}
	sess := newTestSession(t, &fakeSource{chars: testChars()}, store, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	current := sess.Snapshot().Current
	require.NotNil(t, current)

	ev, err := sess.SubmitAnswer(context.Background(), "  "+current.Romaji+"  ")
	require.NoError(t, err)
	assert.True(t, ev.Correct)
	assert.Equal(t, current.ID, ev.Character.ID)
	assert.Equal(t, 1, ev.Record.Attempts)
	assert.Equal(t, 1, ev.Record.CorrectAttempts)
	assert.Equal(t, engine.OutcomeCorrect, sess.Snapshot().LastResult)
}

func TestSubmitAnswer_CaseInsensitive(t *testing.T) {
	store := &fakeStore{}
	sess := newTestSession(t, &fakeSource{chars: testChars()}, store, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	current := sess.Snapshot().Current
	ev, err := sess.SubmitAnswer(context.Background(), strings.ToUpper(current.Romaji))
	require.NoError(t, err)
	assert.True(t, ev.Correct)
}

func TestSubmitAnswer_Incorrect(t *testing.T) {
	store := &fakeStore{}
	sess := newTestSession(t, &fakeSource{chars: testChars()}, store, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	ev, err := sess.SubmitAnswer(context.Background(), "definitely-wrong")
	require.NoError(t, err)
	assert.False(t, ev.Correct)
	assert.Equal(t, 1, ev.Record.Attempts)
	assert.Equal(t, 0, ev.Record.CorrectAttempts)
	assert.Equal(t, engine.OutcomeIncorrect, sess.Snapshot().LastResult)
}

func TestSubmitAnswer_EmptyInputMutatesNothing(t *testing.T) {
	store := &fakeStore{}
	sess := newTestSession(t, &fakeSource{chars: testChars()}, store, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	before := sess.Snapshot()
	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := sess.SubmitAnswer(context.Background(), raw)
		assert.ErrorIs(t, err, engine.ErrEmptyAnswer)
	}
	after := sess.Snapshot()

	assert.Equal(t, 0, store.upserts, "empty submissions must not reach the store")
	assert.Equal(t, before.LastResult, after.LastResult)
	require.NotNil(t, after.Current)
	assert.Equal(t, before.Current.ID, after.Current.ID)
}

func TestSubmitAnswer_EvaluationSurvivesPersistFailure(t *testing.T) {
	store := &fakeStore{upsertErr: errors.New("db locked")}
	sess := newTestSession(t, &fakeSource{chars: testChars()}, store, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	current := sess.Snapshot().Current
	ev, err := sess.SubmitAnswer(context.Background(), current.Romaji)
	require.NoError(t, err, "persistence failure is secondary, not fatal")
	assert.True(t, ev.Correct)

	var persistErr *engine.PersistenceError
	require.ErrorAs(t, ev.PersistErr, &persistErr)

	// The displayed accuracy stays on its last known value.
	for _, e := range sess.Snapshot().Catalog {
		assert.Equal(t, 0.0, e.Accuracy)
	}
}

func TestSubmitAnswer_RejectsConcurrentSecondSubmit(t *testing.T) {
	store := &fakeStore{
		blockEnter: make(chan struct{}),
		blockWait:  make(chan struct{}),
	}
	sess := newTestSession(t, &fakeSource{chars: testChars()}, store, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	current := sess.Snapshot().Current

	done := make(chan error, 1)
	go func() {
		_, err := sess.SubmitAnswer(context.Background(), current.Romaji)
		done <- err
	}()

	// Wait until the first submission is inside the store call.
	<-store.blockEnter

	_, err := sess.SubmitAnswer(context.Background(), current.Romaji)
	assert.ErrorIs(t, err, engine.ErrSubmissionInFlight)
	assert.ErrorIs(t, sess.NextCard(), engine.ErrSubmissionInFlight)

	close(store.blockWait)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never completed")
	}
	assert.Equal(t, 1, store.upserts, "attempt must be counted exactly once")
}

func TestSubmitAnswer_RefreshesCatalogAccuracy(t *testing.T) {
	store := &fakeStore{}
	sess := newTestSession(t, &fakeSource{chars: testChars()}, store, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	current := sess.Snapshot().Current
	_, err := sess.SubmitAnswer(context.Background(), current.Romaji)
	require.NoError(t, err)

	for _, e := range sess.Snapshot().Catalog {
		if e.ID == current.ID {
			assert.Equal(t, 1.0, e.Accuracy)
		} else {
			assert.Equal(t, 0.0, e.Accuracy)
		}
	}
}

func TestNextCard_AvoidsImmediateRepeat(t *testing.T) {
	sess := newTestSession(t, &fakeSource{chars: testChars()}, &fakeStore{}, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	for i := 0; i < 50; i++ {
		prev := sess.Snapshot().Current
		require.NotNil(t, prev)
		require.NoError(t, sess.NextCard())
		next := sess.Snapshot().Current
		require.NotNil(t, next)
		assert.NotEqual(t, prev.ID, next.ID)
	}
}

func TestNextCard_SingleCharacterRepeats(t *testing.T) {
	sess := newTestSession(t, &fakeSource{chars: testChars()[:1]}, &fakeStore{}, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	require.NoError(t, sess.NextCard())
	current := sess.Snapshot().Current
	require.NotNil(t, current)
	assert.Equal(t, int64(1), current.ID)
}

func TestNextCard_ClearsLastResult(t *testing.T) {
	sess := newTestSession(t, &fakeSource{chars: testChars()}, &fakeStore{}, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	_, err := sess.SubmitAnswer(context.Background(), "wrong")
	require.NoError(t, err)
	require.Equal(t, engine.OutcomeIncorrect, sess.Snapshot().LastResult)

	require.NoError(t, sess.NextCard())
	assert.Empty(t, sess.Snapshot().LastResult)
}

func TestSetMode_Transitions(t *testing.T) {
	sess := newTestSession(t, &fakeSource{chars: testChars()}, &fakeStore{}, engine.ModeTyping)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	assert.Empty(t, sess.Snapshot().Choices)

	require.NoError(t, sess.SetMode(engine.ModeMultipleChoice))
	snap := sess.Snapshot()
	assert.Equal(t, engine.ModeMultipleChoice, snap.Mode)
	assert.NotEmpty(t, snap.Choices)
	assert.Equal(t, 1, countOf(snap.Choices, snap.Current.Romaji))

	before := snap.Current.ID
	require.NoError(t, sess.SetMode(engine.ModeTyping))
	snap = sess.Snapshot()
	assert.Equal(t, engine.ModeTyping, snap.Mode)
	assert.Empty(t, snap.Choices)
	assert.Equal(t, before, snap.Current.ID, "mode switch must not advance the card")

	assert.ErrorIs(t, sess.SetMode("oral"), engine.ErrInvalidMode)
}

func TestMultipleChoice_ChoicesFollowCurrentCard(t *testing.T) {
	sess := newTestSession(t, &fakeSource{chars: testChars()}, &fakeStore{}, engine.ModeMultipleChoice)
	require.NoError(t, sess.LoadCatalog(context.Background()))

	for i := 0; i < 20; i++ {
		snap := sess.Snapshot()
		require.NotNil(t, snap.Current)
		assert.Equal(t, 1, countOf(snap.Choices, snap.Current.Romaji))
		require.NoError(t, sess.NextCard())
	}
}
