package rules

import (
	"testing"

	"github.com/krisk248/flowmode/internal/config"
	"github.com/krisk248/flowmode/internal/probe"
)

var testRules = []config.Rule{
	{Name: "Brave", MatchType: config.MatchWindowClass, Pattern: "brave", Category: "Browser"},
	{Name: "Teams", MatchType: config.MatchWindowTitle, Pattern: "Teams", Category: "Communication"},
	{Name: "VS Code", MatchType: config.MatchWindowClass, Pattern: "code", Category: "Development"},
	{Name: "Vim", MatchType: config.MatchProcess, Pattern: "nvim", Category: "Development"},
}

func TestClassifyByClass(t *testing.T) {
	m, ok := Classify(probe.Window{Class: "Brave-browser", Title: "Hacker News"}, testRules)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.AppName != "Brave" || m.Category != "Browser" {
		t.Fatalf("unexpected match: %+v", m)
	}
}

func TestClassifyByTitleCaseInsensitive(t *testing.T) {
	m, ok := Classify(probe.Window{Class: "electron", Title: "Chat | microsoft teams"}, testRules)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.AppName != "Teams" {
		t.Fatalf("matched %q, want Teams", m.AppName)
	}
}

func TestClassifyByProcess(t *testing.T) {
	m, ok := Classify(probe.Window{Class: "foot", Title: "main.go", Process: "nvim"}, testRules)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.AppName != "Vim" {
		t.Fatalf("matched %q, want Vim", m.AppName)
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// "Brave-browser ... Teams" matches both the class rule and the title
	// rule; declaration order decides.
	m, ok := Classify(probe.Window{Class: "Brave-browser", Title: "Teams meeting notes"}, testRules)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.AppName != "Brave" {
		t.Fatalf("matched %q, want Brave (first declared)", m.AppName)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	if _, ok := Classify(probe.Window{Class: "steam", Title: "Library"}, testRules); ok {
		t.Fatal("unlisted window must not match")
	}
}

func TestClassifyEmptyRuleset(t *testing.T) {
	if _, ok := Classify(probe.Window{Class: "brave"}, nil); ok {
		t.Fatal("empty ruleset must never match")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	w := probe.Window{Class: "Code", Title: "tracker.go"}
	first, ok1 := Classify(w, testRules)
	second, ok2 := Classify(w, testRules)
	if ok1 != ok2 || first != second {
		t.Fatalf("same input classified differently: %+v vs %+v", first, second)
	}
}
