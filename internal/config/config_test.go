package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.IdleTimeoutSecs != 300 || cfg.PollIntervalSecs != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Rules) == 0 {
		t.Fatal("default config should ship a starter whitelist")
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Rules) == 0 {
		t.Fatal("expected default rules")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.IdleTimeoutSecs = 120
	cfg.Rules = []Rule{{Name: "Editor", MatchType: MatchWindowClass, Pattern: "vim", Category: "Development"}}

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.IdleTimeoutSecs != 120 {
		t.Fatalf("idle timeout = %d, want 120", got.IdleTimeoutSecs)
	}
	if len(got.Rules) != 1 || got.Rules[0].Name != "Editor" {
		t.Fatalf("unexpected rules: %+v", got.Rules)
	}
}

func TestLoadRejectsInvalidRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
idle_timeout_secs: 300
poll_interval_secs: 5
rules:
  - name: Broken
    match_type: telepathy
    pattern: x
    category: Misc
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("expected ErrInvalidRule, got %v", err)
	}
}

func TestLoadKeepsDefaultRulesWhenKeyAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
idle_timeout_secs: 120
poll_interval_secs: 10
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.IdleTimeoutSecs != 120 {
		t.Fatalf("idle timeout = %d, want 120", got.IdleTimeoutSecs)
	}
	if len(got.Rules) != len(Default().Rules) {
		t.Fatalf("got %d rules, want the %d defaults", len(got.Rules), len(Default().Rules))
	}
}

func TestLoadRejectsEmptyRuleList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
idle_timeout_secs: 300
poll_interval_secs: 5
rules: []
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("expected ErrInvalidRule, got %v", err)
	}
}

func TestValidateRejectsEmptyPattern(t *testing.T) {
	cfg := Default()
	cfg.Rules = []Rule{{Name: "X", MatchType: MatchProcess, Pattern: "", Category: "Misc"}}
	if !errors.Is(cfg.Validate(), ErrInvalidRule) {
		t.Fatal("expected ErrInvalidRule for empty pattern")
	}
}

func TestValidateRejectsBadIntervals(t *testing.T) {
	cfg := Default()
	cfg.PollIntervalSecs = 0
	if cfg.Validate() == nil {
		t.Fatal("expected error for zero poll interval")
	}
}

func TestIsFocusCategory(t *testing.T) {
	cfg := Default()
	if !cfg.IsFocusCategory("Development") {
		t.Fatal("Development should be focus-eligible by default")
	}
	if cfg.IsFocusCategory("Browser") {
		t.Fatal("Browser should not be focus-eligible by default")
	}
}
