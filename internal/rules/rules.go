// Package rules classifies window samples against the user's whitelist.
// No match means the sample is never recorded anywhere.
package rules

import (
	"strings"

	"github.com/krisk248/flowmode/internal/config"
	"github.com/krisk248/flowmode/internal/probe"
)

// Match is a successful classification of a sample.
type Match struct {
	AppName  string
	Category string
}

// Classify returns the first rule matching the window, in declaration
// order. All comparisons are case-insensitive substring containment.
// Pure: no I/O, no state.
func Classify(w probe.Window, ruleset []config.Rule) (Match, bool) {
	class := strings.ToLower(w.Class)
	title := strings.ToLower(w.Title)
	process := strings.ToLower(w.Process)

	for _, r := range ruleset {
		pattern := strings.ToLower(r.Pattern)
		var field string
		switch r.MatchType {
		case config.MatchWindowClass:
			field = class
		case config.MatchWindowTitle:
			field = title
		case config.MatchProcess:
			field = process
		default:
			continue
		}
		if strings.Contains(field, pattern) {
			return Match{AppName: r.Name, Category: r.Category}, true
		}
	}
	return Match{}, false
}
