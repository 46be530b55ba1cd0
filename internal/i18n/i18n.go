// Package i18n holds the handful of user-facing strings the backend
// itself produces. The frontend carries the full translation tables;
// the backend only localizes generic error messages.
package i18n

import "github.com/nafsiapp/nafsi-backend/internal/models"

var messages = map[string]models.LocalizedText{
	"error_generic": {
		models.LanguageEN: "Something went wrong. Please try again.",
		models.LanguageAR: "حدث خطأ ما. يرجى المحاولة مرة أخرى.",
		models.LanguageFR: "Une erreur s'est produite. Veuillez réessayer.",
	},
	"error_assessment": {
		models.LanguageEN: "We couldn't process your assessment right now. Please try again.",
		models.LanguageAR: "تعذر معالجة التقييم الخاص بك الآن. يرجى المحاولة مرة أخرى.",
		models.LanguageFR: "Impossible de traiter votre évaluation pour le moment. Veuillez réessayer.",
	},
	"error_unavailable": {
		models.LanguageEN: "This feature is temporarily unavailable.",
		models.LanguageAR: "هذه الميزة غير متوفرة مؤقتًا.",
		models.LanguageFR: "Cette fonctionnalité est temporairement indisponible.",
	},
}

// Message returns the localized string for the given key, falling back
// to English, then to the key itself for unknown keys.
func Message(key string, lang models.Language) string {
	t, ok := messages[key]
	if !ok {
		return key
	}
	return t.In(lang)
}
