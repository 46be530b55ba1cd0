package i18n

import (
	"testing"

	"github.com/nafsiapp/nafsi-backend/internal/models"
)

func TestMessage(t *testing.T) {
	if got := Message("error_generic", models.LanguageAR); got == "" {
		t.Error("missing Arabic translation for error_generic")
	}
	en := Message("error_generic", models.LanguageEN)
	if got := Message("error_generic", models.Language("xx")); got != en {
		t.Errorf("unknown language = %q, want English fallback %q", got, en)
	}
	if got := Message("no_such_key", models.LanguageEN); got != "no_such_key" {
		t.Errorf("unknown key = %q, want key echoed", got)
	}
}

func TestLanguageParseAndDir(t *testing.T) {
	if models.ParseLanguage("ar") != models.LanguageAR {
		t.Error("ar not parsed")
	}
	if models.ParseLanguage("de") != models.LanguageEN {
		t.Error("unknown tag should fall back to en")
	}
	if models.LanguageAR.Dir() != "rtl" {
		t.Error("Arabic must be rtl")
	}
	if models.LanguageFR.Dir() != "ltr" {
		t.Error("French must be ltr")
	}
}
