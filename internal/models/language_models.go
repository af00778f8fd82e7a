package models

import "strings"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageTelugu  Language = "te"
	// LanguageOther covers everything the detector could not place in the
	// supported set, including undetectable input.
	LanguageOther Language = "other"
)

// SupportedLanguages are the languages the classifier variants are tuned
// for. Detection falls back to LanguageOther outside this set.
var SupportedLanguages = []Language{
	LanguageEnglish,
	LanguageHindi,
	LanguageTelugu,
}

func (l Language) Supported() bool {
	for _, s := range SupportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

func (l Language) DisplayName() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageHindi:
		return "Hindi"
	case LanguageTelugu:
		return "Telugu"
	default:
		return "Other"
	}
}

// SpeechCode maps a language to the BCP-47 code the speech service expects.
func (l Language) SpeechCode() string {
	switch l {
	case LanguageHindi:
		return "hi-IN"
	case LanguageTelugu:
		return "te-IN"
	default:
		return "en-US"
	}
}

// ParseLanguage accepts tags ("en"), speech codes ("en-US") and display
// names ("English"), case-insensitively. Anything else is LanguageOther.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "en-us", "english":
		return LanguageEnglish
	case "hi", "hi-in", "hindi":
		return LanguageHindi
	case "te", "te-in", "telugu":
		return LanguageTelugu
	default:
		return LanguageOther
	}
}

// LanguageCandidate is one entry of the detector's ranked candidate list.
type LanguageCandidate struct {
	Language   Language `json:"language"`
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
}
