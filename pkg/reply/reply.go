// Package reply decodes the structured plain-text replies produced by the
// conversation model into the parts the chat UI renders separately.
//
// A reply is a sequence of lines. Leading sentinels mark the role of a line:
//
//	🇰🇷 → 🇺🇸 "..."   English translation of the user's Korean input (first line only)
//	🇰🇷 "..."         Korean translation of the assistant's reply
//	📝 ...            explanatory aside, dropped
//	💬 ...            start of the trailing naturalness block
//	① "..." / ② "..." alternative phrasings inside the naturalness block
//
// Everything else is the assistant's in-character reply.
package reply

import (
	"strings"
)

const (
	sentinelKorea      = "🇰🇷"
	sentinelUS         = "🇺🇸"
	sentinelSeparator  = "→"
	sentinelNote       = "📝"
	sentinelCallout    = "💬"
	ordinalFirst       = "①"
	ordinalSecond      = "②"
	maxNaturalnessAlts = 2
)

// Decoded holds the parts of a single assistant reply.
type Decoded struct {
	// Main is the in-character reply body with inner line breaks preserved.
	Main string `json:"main"`

	// UserTranslation is the English rendering of the preceding user turn.
	UserTranslation string `json:"user_translation"`

	// ReplyTranslation is the Korean rendering of Main.
	ReplyTranslation string `json:"reply_translation"`

	// Naturalness holds at most two suggested rewrites of the user's last message.
	Naturalness []string `json:"naturalness"`

	// HasSecondary reports whether a reply translation is available to disclose.
	HasSecondary bool `json:"has_secondary"`
}

// contentFold is the accumulator carried across the content lines.
type contentFold struct {
	seenFirstNonBlank bool
	mainLines         []string
	userTranslation   string
	replyTranslation  string
}

// Decode splits raw into its parts. It never fails: text without any
// sentinel is passed through as Main.
func Decode(raw string) Decoded {
	lines := splitLines(raw)

	content := lines
	var block []string
	if idx := calloutIndex(lines); idx >= 0 {
		content = lines[:idx]
		block = lines[idx:]
	}

	var acc contentFold
	for _, line := range content {
		acc.step(line)
	}

	d := Decoded{
		Main:             strings.TrimSpace(strings.Join(acc.mainLines, "\n")),
		UserTranslation:  acc.userTranslation,
		ReplyTranslation: acc.replyTranslation,
		Naturalness:      naturalness(block),
	}

	// The model occasionally puts its whole reply in the user-translation slot.
	if d.Main == "" && d.UserTranslation != "" {
		d.Main = d.UserTranslation
		d.UserTranslation = ""
	}

	d.HasSecondary = d.ReplyTranslation != ""
	return d
}

func (f *contentFold) step(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		if f.seenFirstNonBlank {
			f.mainLines = append(f.mainLines, line)
		}
		return
	}

	first := !f.seenFirstNonBlank
	f.seenFirstNonBlank = true

	switch {
	case first && isUserTranslation(trimmed):
		f.userTranslation = stripUserTranslation(trimmed)
	case isReplyTranslation(trimmed):
		f.replyTranslation = stripReplyTranslation(trimmed)
	case strings.HasPrefix(trimmed, sentinelNote):
	default:
		f.mainLines = append(f.mainLines, line)
	}
}

func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func calloutIndex(lines []string) int {
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), sentinelCallout) {
			return i
		}
	}
	return -1
}

func naturalness(block []string) []string {
	alts := []string{}
	for _, l := range block {
		if len(alts) == maxNaturalnessAlts {
			break
		}

		trimmed := strings.TrimSpace(l)
		var rest string
		switch {
		case strings.HasPrefix(trimmed, ordinalFirst):
			rest = strings.TrimPrefix(trimmed, ordinalFirst)
		case strings.HasPrefix(trimmed, ordinalSecond):
			rest = strings.TrimPrefix(trimmed, ordinalSecond)
		default:
			continue
		}
		alts = append(alts, unquote(rest))
	}
	return alts
}

func isUserTranslation(trimmed string) bool {
	return strings.HasPrefix(trimmed, sentinelKorea) && strings.Contains(trimmed, sentinelSeparator)
}

func isReplyTranslation(trimmed string) bool {
	return strings.HasPrefix(trimmed, sentinelKorea) && !strings.Contains(trimmed, sentinelSeparator)
}

func stripUserTranslation(trimmed string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, sentinelKorea))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, sentinelSeparator))
	rest = strings.TrimPrefix(rest, sentinelUS)
	return unquote(rest)
}

func stripReplyTranslation(trimmed string) string {
	return unquote(strings.TrimPrefix(trimmed, sentinelKorea))
}

// unquote trims s and removes one leading and one trailing quote when present.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, "“"} {
		if strings.HasPrefix(s, q) {
			s = strings.TrimPrefix(s, q)
			break
		}
	}
	for _, q := range []string{`"`, "”"} {
		if strings.HasSuffix(s, q) {
			s = strings.TrimSuffix(s, q)
			break
		}
	}
	return strings.TrimSpace(s)
}
