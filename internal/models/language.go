package models

// Language is the display language of the app. Arabic is rendered right-to-left.
type Language string

const (
	LanguageEN Language = "en"
	LanguageAR Language = "ar"
	LanguageFR Language = "fr"
)

// Languages lists every supported language.
var Languages = []Language{LanguageEN, LanguageAR, LanguageFR}

// ParseLanguage maps a language tag to a supported Language.
// Unknown or empty tags fall back to English.
func ParseLanguage(tag string) Language {
	switch Language(tag) {
	case LanguageAR:
		return LanguageAR
	case LanguageFR:
		return LanguageFR
	default:
		return LanguageEN
	}
}

// Dir returns the text direction for the language ("rtl" or "ltr").
func (l Language) Dir() string {
	if l == LanguageAR {
		return "rtl"
	}
	return "ltr"
}

// LocalizedText holds one string per supported language.
type LocalizedText map[Language]string

// In returns the text for the given language, falling back to English.
func (t LocalizedText) In(lang Language) string {
	if s, ok := t[lang]; ok && s != "" {
		return s
	}
	return t[LanguageEN]
}

// SameForAll builds a LocalizedText with the same value for every language.
// Private rooms are created this way: the creator's text is not translated.
func SameForAll(s string) LocalizedText {
	t := make(LocalizedText, len(Languages))
	for _, lang := range Languages {
		t[lang] = s
	}
	return t
}
