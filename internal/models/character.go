package models

// KanaType selects which syllabary a practice session draws from.
type KanaType string

const (
	KanaHiragana KanaType = "hiragana"
	KanaKatakana KanaType = "katakana"
)

// Valid reports whether t names a known syllabary.
func (t KanaType) Valid() bool {
	return t == KanaHiragana || t == KanaKatakana
}

// Character is a single kana glyph and its romanized reading.
// Distinct characters may legitimately share a romaji (じ/ぢ both read "ji").
type Character struct {
	ID        int64    `json:"id"`
	KanaType  KanaType `json:"kana_type"`
	Glyph     string   `json:"glyph"`
	Romaji    string   `json:"romaji"`
	SortOrder int      `json:"sort_order"`
}
