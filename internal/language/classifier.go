package language

import (
	"strings"
	"unicode"
)

// Language identifies the language of a message. Every message and every
// retrieval/generation call carries a concrete value; ambiguous input
// resolves to English.
type Language string

const (
	English   Language = "english"
	Arabic    Language = "arabic"
	Jordanian Language = "jordanian"
)

// Valid reports whether s names a known language.
func Valid(s string) bool {
	switch Language(s) {
	case English, Arabic, Jordanian:
		return true
	}
	return false
}

// ArabicFamily reports whether l is written in Arabic script.
func (l Language) ArabicFamily() bool {
	return l == Arabic || l == Jordanian
}

// RTL reports whether l renders right-to-left.
func (l Language) RTL() bool {
	return l.ArabicFamily()
}

// DisplayName returns the human-facing name of the language.
func (l Language) DisplayName() string {
	switch l {
	case Arabic:
		return "العربية الفصحى"
	case Jordanian:
		return "العربية الأردنية"
	default:
		return "English"
	}
}

// jordanianMarkers are dialect indicators: colloquial pronouns, particles,
// and the domain words customers actually type. Presence of any one of them
// in Arabic-dominant text selects the Jordanian variant.
var jordanianMarkers = []string{
	"شو", "ايش", "وين", "كيف", "هيك", "هاي", "هاد", "هاذا", "هاذي",
	"بدي", "بده", "بدها", "بدهم", "بدكم", "بدكن",
	"مش", "مو", "ما", "لا", "بس", "كمان", "برضو", "زي",
	"عشان", "علشان", "يعني", "يا زلمة", "يا جماعة",
	"الكهربا", "الفاتورة", "جيبكو",
}

// Detect classifies text as English, standard Arabic, or Jordanian Arabic.
// It is total: any input, including empty or whitespace-only text, yields a
// concrete value, defaulting to English.
func Detect(text string) Language {
	if strings.TrimSpace(text) == "" {
		return English
	}

	var arabicChars, latinChars, totalChars int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		totalChars++
		switch {
		case isArabicRune(r):
			arabicChars++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latinChars++
		}
	}

	if arabicChars > latinChars && float64(arabicChars) > float64(totalChars)*0.3 {
		lower := strings.ToLower(text)
		for _, marker := range jordanianMarkers {
			if strings.Contains(lower, marker) {
				return Jordanian
			}
		}
		return Arabic
	}

	return English
}

// isArabicRune covers the Arabic block plus its supplements and the
// presentation-form blocks that scraped or pasted text sometimes carries.
func isArabicRune(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return true
	case r >= 0x0750 && r <= 0x077F:
		return true
	case r >= 0x08A0 && r <= 0x08FF:
		return true
	case r >= 0xFB50 && r <= 0xFDFF:
		return true
	case r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}
