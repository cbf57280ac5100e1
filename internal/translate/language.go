package translate

import (
	"strings"
)

type Language string

const (
	EN Language = "EN"
	RW Language = "RW"
	FR Language = "FR"
)

// FallbackOrder is the order in which other languages are tried when a field is missing.
var FallbackOrder = []Language{EN, RW, FR}

// Code returns the code the translation endpoint expects.
func (l Language) Code() string {
	return strings.ToLower(string(l))
}

func (l Language) Valid() bool {
	switch l {
	case EN, RW, FR:
		return true
	}
	return false
}

// ParseLanguage accepts "en", "EN", " rw " and so on.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToUpper(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Fields holds one text per language, missing or blank entries allowed.
type Fields map[Language]string

// Pick returns the text in lang if present, otherwise the first non blank text in
// FallbackOrder and the language it is written in. ok is false when every entry is blank.
func (f Fields) Pick(lang Language) (text string, from Language, ok bool) {
	if v := f[lang]; strings.TrimSpace(v) != "" {
		return v, lang, true
	}
	for _, fallback := range FallbackOrder {
		if fallback == lang {
			continue
		}
		if v := f[fallback]; strings.TrimSpace(v) != "" {
			return v, fallback, true
		}
	}
	return "", lang, false
}
