package cliui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/globalbuddy/buddy/pkg/chat"
	"github.com/globalbuddy/buddy/pkg/scenario"
)

const bubbleWidth = 64

var (
	userStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
	assistantStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	altStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	ordinalMarks = []string{"①", "②"}
)

const (
	// TranslationHint is shown under assistant bubbles whose translation is folded.
	TranslationHint = "/t %d 번역 보기"

	// NaturalnessCaption heads the alternatives under a user bubble.
	NaturalnessCaption = "💬 더 자연스럽게"
)

// RenderBubble renders one chat bubble. n is the bubble's 1-based position,
// used for the translation toggle hint.
func RenderBubble(b chat.Bubble, n int) string {
	if b.Turn.FromUser() {
		return renderUser(b)
	}
	return renderAssistant(b, n)
}

func renderUser(b chat.Bubble) string {
	var sb strings.Builder
	sb.WriteString(b.Turn.Text)

	if b.UserTranslation != "" {
		sb.WriteString("\n")
		sb.WriteString(noteStyle.Render(b.UserTranslation))
	}

	if len(b.Naturalness) > 0 {
		sb.WriteString("\n")
		sb.WriteString(captionStyle.Render(NaturalnessCaption))
	}
	for i, alt := range b.Naturalness {
		if i >= len(ordinalMarks) {
			break
		}
		sb.WriteString("\n")
		sb.WriteString(altStyle.Render(fmt.Sprintf("%s \"%s\"", ordinalMarks[i], alt)))
	}

	box := userStyle.Width(bubbleWidth).Render(sb.String())
	return lipgloss.PlaceHorizontal(bubbleWidth+8, lipgloss.Right, box)
}

func renderAssistant(b chat.Bubble, n int) string {
	var sb strings.Builder
	sb.WriteString(b.Reply.Main)

	if b.Reply.HasSecondary {
		sb.WriteString("\n")
		if b.Expanded {
			sb.WriteString(noteStyle.Render(b.Reply.ReplyTranslation))
		} else {
			sb.WriteString(noteStyle.Render(fmt.Sprintf(TranslationHint, n)))
		}
	}

	return assistantStyle.Width(bubbleWidth).Render(sb.String())
}

// RenderConversation renders every bubble in order, separated by newlines.
func RenderConversation(bubbles []chat.Bubble) string {
	parts := make([]string, 0, len(bubbles))
	for i, b := range bubbles {
		parts = append(parts, RenderBubble(b, i+1))
	}
	return strings.Join(parts, "\n")
}

// ScenarioHeader renders the chat header line for sc.
func ScenarioHeader(sc scenario.Scenario) string {
	return headerStyle.Render(fmt.Sprintf("%s %s", sc.Emoji, sc.Label))
}

// RenderScenarios renders the catalog as a markdown table.
func RenderScenarios(scenarios []scenario.Scenario) string {
	var sb strings.Builder
	sb.WriteString("| | ID | Scenario | Description |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, sc := range scenarios {
		fmt.Fprintf(&sb, "| %s | `%s` | %s | %s |\n", sc.Emoji, sc.ID, sc.Label, sc.Description)
	}
	return sb.String()
}
