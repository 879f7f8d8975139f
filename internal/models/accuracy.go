package models

import "time"

// AccuracyRecord is one learner's historical performance on one character.
// At most one record exists per (user, character) pair. Accuracy is a stored
// display value; the read path surfaces it verbatim and never re-derives it
// from the counters.
type AccuracyRecord struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	CharacterID     int64     `json:"character_id"`
	Attempts        int       `json:"attempts"`
	CorrectAttempts int       `json:"correct_attempts"`
	Accuracy        float64   `json:"accuracy"`
	UpdatedAt       time.Time `json:"updated_at"`
}
