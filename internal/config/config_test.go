package config

import "testing"

func TestStripToHostname(t *testing.T) {
	cases := map[string]string{
		"https://api.nafsi.app":      "api.nafsi.app",
		"http://localhost:8080":      "localhost",
		"api.nafsi.app/health":       "api.nafsi.app",
		"  https://api.nafsi.app/x ": "api.nafsi.app",
	}
	for in, want := range cases {
		if got := stripToHostname(in); got != want {
			t.Errorf("stripToHostname(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("PORT", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.IsProduction() {
		t.Error("development config reported production")
	}
	if cfg.AllowedHost != "" {
		t.Error("AllowedHost set outside production")
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("no default CORS origin")
	}
}

func TestLoadProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("HOST", "https://api.nafsi.app")
	t.Setenv("ALLOWED_ORIGINS", "https://nafsi.app, https://www.nafsi.app")

	cfg := Load()
	if !cfg.IsProduction() {
		t.Error("production config not detected")
	}
	if cfg.AllowedHost != "api.nafsi.app" {
		t.Errorf("AllowedHost = %q", cfg.AllowedHost)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}
