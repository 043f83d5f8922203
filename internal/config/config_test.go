package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// No config file exists in the package directory, so defaults apply.
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "release" {
		t.Fatalf("mode = %q, want release", cfg.Mode)
	}
	if cfg.Port != 3000 {
		t.Fatalf("port = %d, want 3000", cfg.Port)
	}
	if cfg.StaticPath != "./web" {
		t.Fatalf("static_path = %q", cfg.StaticPath)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("token_ttl = %v, want 1h", cfg.TokenTTL)
	}
	if cfg.Credentialed() {
		t.Fatal("should not be credentialed without env")
	}
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("AGORA_APP_ID", "app-id")
	t.Setenv("AGORA_APP_CERTIFICATE", "app-cert")
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Credentialed() {
		t.Fatal("should be credentialed")
	}
	if cfg.AppID != "app-id" || cfg.AppCertificate != "app-cert" {
		t.Fatalf("credentials = %q/%q", cfg.AppID, cfg.AppCertificate)
	}
	if cfg.Port != 8081 {
		t.Fatalf("port = %d, want 8081", cfg.Port)
	}
}

func TestCredentialedNeedsBoth(t *testing.T) {
	tests := []struct {
		id, cert string
		want     bool
	}{
		{"", "", false},
		{"id", "", false},
		{"", "cert", false},
		{"id", "cert", true},
	}
	for _, tt := range tests {
		c := Config{AppID: tt.id, AppCertificate: tt.cert}
		if got := c.Credentialed(); got != tt.want {
			t.Errorf("Credentialed(%q, %q) = %v, want %v", tt.id, tt.cert, got, tt.want)
		}
	}
}
