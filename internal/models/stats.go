package models

// CharacterStat is one dashboard row: a character joined with the learner's
// counters. Characters never attempted carry all-zero counters.
type CharacterStat struct {
	CharacterID     int64    `json:"character_id"`
	KanaType        KanaType `json:"kana_type"`
	Glyph           string   `json:"glyph"`
	Romaji          string   `json:"romaji"`
	Attempts        int      `json:"attempts"`
	CorrectAttempts int      `json:"correct_attempts"`
	Accuracy        float64  `json:"accuracy"`
}

type SummaryStat struct {
	CharactersSeen      int     `json:"characters_seen"`
	CharactersTotal     int     `json:"characters_total"`
	TotalAttempts       int     `json:"total_attempts"`
	TotalCorrect        int     `json:"total_correct"`
	OverallAccuracy     float64 `json:"overall_accuracy"`
	CharactersMastered  int     `json:"characters_mastered"`
	CharactersStruggling int    `json:"characters_struggling"`
}
