package domain

import "strings"

// Language identifies one corpus partition. Each language owns an
// independent keyword index, vector index, chunk corpus and manifest.
type Language string

// Languages shipped with the lore corpus.
const (
	LanguageEN Language = "en"
	LanguageJA Language = "ja"
	LanguageZH Language = "zh"
	LanguageKO Language = "ko"
)

// ParseLanguage normalises a language tag ("EN", "en-US") to a Language.
// It does not validate against a corpus; the registry does that.
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	return Language(s)
}

// CJK reports whether the language needs a segmentation step before
// lexical scoring because words are not whitespace-delimited.
func (l Language) CJK() bool {
	switch l {
	case LanguageJA, LanguageZH, LanguageKO:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}
