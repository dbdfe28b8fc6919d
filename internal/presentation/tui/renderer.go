package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/formpilot/formpilot/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // detect light/dark background
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// QuestionMarkdown formats a question as markdown for terminal rendering:
// the prompt, then the options or format hints.
func QuestionMarkdown(q *domain.Question) string {
	var sb strings.Builder
	sb.WriteString("**")
	sb.WriteString(q.Prompt)
	sb.WriteString("**\n")

	if len(q.Options) > 0 {
		sb.WriteString("\n")
		for i, opt := range q.Options {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, opt)
		}
	}

	switch q.Kind {
	case domain.QuestionBoolean:
		sb.WriteString("\n_yes / no_\n")
	case domain.QuestionDate:
		sb.WriteString("\n_date, e.g. 2026-01-31_\n")
	}
	if !q.Required {
		sb.WriteString("\n_optional, press enter to skip_\n")
	}
	return sb.String()
}

// SuggestionsMarkdown formats the discovery outcome as markdown.
func SuggestionsMarkdown(suggestions []string) string {
	var sb strings.Builder
	sb.WriteString("## Suggested forms\n\n")
	for _, id := range suggestions {
		fmt.Fprintf(&sb, "- `%s`\n", id)
	}
	return sb.String()
}
