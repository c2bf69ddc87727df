package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_x")
	t.Setenv("CODES_BASE_URL", "https://codes.example.com/api/v1")
	t.Setenv("POSTMARK_SENDER_EMAIL", "sender@example.com")
	t.Setenv("POSTMARK_API_TOKEN", "pm-token")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":4242" {
		t.Fatalf("addr = %q, want :4242", cfg.Server.Addr)
	}
	if cfg.Codes.Backend != "restapi" || cfg.Email.Provider != "postmark" {
		t.Fatalf("defaults: backend=%q provider=%q", cfg.Codes.Backend, cfg.Email.Provider)
	}
	if cfg.Codes.Timeout != 10*time.Second {
		t.Fatalf("timeout = %v, want 10s", cfg.Codes.Timeout)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing config file should not fail: %v", err)
	}
}

func TestLoad_YAMLPlusEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  addr: ":8080"
codes:
  backend: sheetdb
  base_url: https://sheet.example.com/abc
email:
  provider: sendgrid
  from: yaml@example.com
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	// env pisa yaml
	t.Setenv("PORT", "9999")
	t.Setenv("EMAIL_PROVIDER", "postmark")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("PORT should win: addr = %q", cfg.Server.Addr)
	}
	if cfg.Codes.Backend != "sheetdb" {
		t.Fatalf("backend = %q, want sheetdb from yaml", cfg.Codes.Backend)
	}
	if cfg.Email.Provider != "postmark" {
		t.Fatalf("provider = %q, want env override", cfg.Email.Provider)
	}
	if cfg.Email.From != "yaml@example.com" {
		t.Fatalf("from = %q", cfg.Email.From)
	}
}

func TestLoad_OriginalEnvNames(t *testing.T) {
	validEnv(t)
	t.Setenv("STRIPE_API_KEY", "sk_test_x")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Stripe.WebhookSecret != "whsec_x" || cfg.Stripe.APIKey != "sk_test_x" {
		t.Fatalf("stripe env not applied: %+v", cfg.Stripe)
	}
	if cfg.Email.From != "sender@example.com" {
		t.Fatalf("POSTMARK_SENDER_EMAIL not applied: %q", cfg.Email.From)
	}
	if cfg.Email.Postmark.ServerToken != "pm-token" {
		t.Fatalf("POSTMARK_API_TOKEN not applied")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config should validate: %v", err)
	}
}

func TestValidate_MissingPieces(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"webhook secret", func(c *Config) { c.Stripe.WebhookSecret = "" }},
		{"codes base url", func(c *Config) { c.Codes.BaseURL = "" }},
		{"sender address", func(c *Config) { c.Email.From = "" }},
		{"postmark token", func(c *Config) { c.Email.Postmark.ServerToken = "" }},
		{"unknown backend", func(c *Config) { c.Codes.Backend = "dynamo" }},
		{"unknown provider", func(c *Config) { c.Email.Provider = "carrier-pigeon" }},
	}
	for _, tc := range cases {
		validEnv(t)
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("%s: load: %v", tc.name, err)
		}
		tc.mut(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidate_SMTPProviderNeedsHost(t *testing.T) {
	validEnv(t)
	t.Setenv("EMAIL_PROVIDER", "smtp")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error: smtp provider without host")
	}

	t.Setenv("SMTP_HOST", "mail.example.com")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("smtp config should validate: %v", err)
	}
}
