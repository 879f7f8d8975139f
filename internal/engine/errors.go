package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog means selection was attempted against zero characters.
	ErrEmptyCatalog = errors.New("catalog has no characters")
	// ErrEmptyAnswer means the submitted answer was blank after trimming.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrUnauthenticated means no user identity was supplied.
	ErrUnauthenticated = errors.New("no user identity")
	// ErrSubmissionInFlight rejects a second submit while one is outstanding.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrNotLoaded means an operation needs a catalog that was never loaded.
	ErrNotLoaded = errors.New("catalog not loaded")
	// ErrInvalidMode means the requested interaction mode is unknown.
	ErrInvalidMode = errors.New("invalid interaction mode")
	// ErrInvalidKanaType means the requested syllabary is unknown.
	ErrInvalidKanaType = errors.New("invalid kana type")
)

// CatalogError wraps a failed catalog or accuracy fetch. The load is
// retryable and no session state has been mutated.
type CatalogError struct {
	Err error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog unavailable: %v", e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }

// PersistenceError reports that an evaluation succeeded but the counter
// update did not reach the store. It is carried inside the evaluation
// result, never returned as the primary error of SubmitAnswer.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("accuracy update not persisted: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
