// Package titles extracts readable context from raw window titles for
// the detailed view: chat partners from Teams, folders from terminals,
// sites from browsers.
package titles

import (
	"fmt"
	"regexp"
	"strings"
)

// Parsed is a cleaned-up rendering of a window title.
type Parsed struct {
	Display     string // short display form
	ContextType string // "call", "chat", "folder", "website", ...
	Context     string // extracted context (person, folder, site)
}

var (
	teamsCallRE    = regexp.MustCompile(`(?i)^(?:\(\d+\)\s*)?(?:Call|Meeting)\s*(?:with\s+)?(?:\|\s*)?(.+?)\s*(?:\||$)`)
	teamsChatRE    = regexp.MustCompile(`(?i)^(?:\(\d+\)\s*)?Chat\s*\|\s*(.+?)\s*\|\s*Microsoft Teams`)
	teamsChannelRE = regexp.MustCompile(`(?i)^(?:\(\d+\)\s*)?(.+?)\s*\|\s*Microsoft Teams`)
	pathTailRE     = regexp.MustCompile(`(?:^|/)([^/]+)$`)
	browserSiteRE  = regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+?)$`)
)

var browserSuffixes = []string{
	" - Brave", " - Google Chrome", " - Firefox", " - Microsoft Edge",
}

// Parse dispatches on category the way the detailed view groups apps.
func Parse(appName, category, title string) Parsed {
	switch strings.ToLower(category) {
	case "communication":
		if strings.Contains(strings.ToLower(appName), "teams") {
			return parseTeams(title)
		}
		return Parsed{Display: truncate(title, 40), ContextType: "communication", Context: title}
	case "terminal":
		return parseTerminal(title)
	case "browser":
		return parseBrowser(title)
	default:
		return Parsed{Display: truncate(title, 40), ContextType: strings.ToLower(category), Context: title}
	}
}

func parseTeams(title string) Parsed {
	if m := teamsCallRE.FindStringSubmatch(title); m != nil {
		person := strings.TrimSpace(m[1])
		return Parsed{Display: "Call: " + truncate(person, 30), ContextType: "call", Context: person}
	}
	if m := teamsChatRE.FindStringSubmatch(title); m != nil {
		person := strings.TrimSpace(m[1])
		return Parsed{Display: "Chat: " + truncate(person, 30), ContextType: "chat", Context: person}
	}
	if m := teamsChannelRE.FindStringSubmatch(title); m != nil {
		channel := strings.TrimSpace(m[1])
		if channel == "" || strings.EqualFold(channel, "microsoft teams") {
			return Parsed{Display: "Teams", ContextType: "app", Context: "Microsoft Teams"}
		}
		return Parsed{Display: truncate(channel, 40), ContextType: "channel", Context: channel}
	}
	return Parsed{Display: truncate(title, 40), ContextType: "app", Context: title}
}

func parseTerminal(title string) Parsed {
	cleaned := strings.TrimSpace(title)
	cleaned = strings.TrimSpace(strings.TrimLeft(cleaned, "✱*●○◉"))

	// Path-looking titles: keep the last folder.
	if strings.HasPrefix(cleaned, "~") || strings.HasPrefix(cleaned, "/") {
		if m := pathTailRE.FindStringSubmatch(cleaned); m != nil {
			return Parsed{Display: "Folder: " + m[1], ContextType: "folder", Context: m[1]}
		}
	}

	// "user@host: path" prompt titles.
	if strings.Contains(cleaned, "@") && strings.Contains(cleaned, ":") {
		path := strings.TrimSpace(cleaned[strings.Index(cleaned, ":")+1:])
		if m := pathTailRE.FindStringSubmatch(path); m != nil {
			return Parsed{Display: "Folder: " + m[1], ContextType: "folder", Context: m[1]}
		}
	}

	// Editor sessions inside the terminal.
	if strings.HasPrefix(cleaned, "nvim ") || strings.HasPrefix(cleaned, "vim ") {
		fields := strings.Fields(cleaned)
		if len(fields) > 1 {
			file := fields[1]
			if m := pathTailRE.FindStringSubmatch(file); m != nil {
				file = m[1]
			}
			return Parsed{Display: "Editing: " + file, ContextType: "file", Context: file}
		}
	}

	return Parsed{Display: truncate(cleaned, 40), ContextType: "terminal", Context: cleaned}
}

func parseBrowser(title string) Parsed {
	cleaned := strings.TrimSpace(title)
	for _, suffix := range browserSuffixes {
		cleaned = strings.TrimSuffix(cleaned, suffix)
	}
	cleaned = strings.TrimSpace(cleaned)
	lower := strings.ToLower(cleaned)

	switch {
	case strings.Contains(lower, "youtube"):
		video := strings.TrimLeft(cleaned, "()0123456789 ")
		video = strings.ReplaceAll(video, "- YouTube", "")
		video = strings.TrimSpace(strings.ReplaceAll(video, "YouTube", ""))
		video = strings.TrimSpace(strings.TrimSuffix(video, "-"))
		if video == "" {
			return Parsed{Display: "YouTube", ContextType: "website", Context: "youtube.com"}
		}
		return Parsed{Display: "YT: " + truncate(video, 35), ContextType: "video", Context: video}
	case strings.Contains(lower, "github"):
		return Parsed{Display: "GitHub: " + truncate(cleaned, 30), ContextType: "code", Context: cleaned}
	case strings.Contains(lower, "stack overflow"):
		question := strings.ReplaceAll(cleaned, " - Stack Overflow", "")
		return Parsed{Display: "SO: " + truncate(question, 35), ContextType: "research", Context: question}
	case strings.Contains(lower, "gmail") || strings.Contains(lower, "inbox"):
		return Parsed{Display: "Email", ContextType: "email", Context: cleaned}
	case strings.Contains(lower, "chatgpt") || strings.Contains(lower, "claude.ai"):
		return Parsed{Display: "AI Assistant", ContextType: "ai", Context: cleaned}
	case strings.Contains(lower, "docs.google") || strings.Contains(lower, "sheets.google"):
		return Parsed{Display: "Docs: " + truncate(cleaned, 30), ContextType: "document", Context: cleaned}
	}

	if m := browserSiteRE.FindStringSubmatch(cleaned); m != nil {
		return Parsed{Display: truncate(m[1], 40), ContextType: "website", Context: m[2]}
	}
	return Parsed{Display: truncate(cleaned, 40), ContextType: "website", Context: cleaned}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 1 {
		return ""
	}
	return fmt.Sprintf("%s…", string(runes[:max-1]))
}
