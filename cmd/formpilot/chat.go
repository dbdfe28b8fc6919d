package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/formpilot/formpilot"
	"github.com/formpilot/formpilot/internal/presentation/tui"
	"github.com/formpilot/formpilot/internal/sanitize"
	"github.com/formpilot/formpilot/pkg/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactively find and fill out a form",
	Long: `Runs the full assistant flow in the terminal: the discovery
questionnaire first, then field-by-field elicitation for the chosen
template. Options can be picked by number.`,
	Run: func(cmd *cobra.Command, args []string) {
		assistant := mustAssistant(cmd)
		runChat(assistant)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(assistant *formpilot.Assistant) {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		tui.PrintBanner(formpilot.Version)
	}

	render := tui.NewRenderer()
	show := func(markdown string) {
		if interactive {
			if out, err := render(markdown); err == nil {
				fmt.Print(out)
				return
			}
		}
		fmt.Print(markdown)
	}

	scanner := bufio.NewScanner(os.Stdin)
	readLine := func() (string, bool) {
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return "", false
			}
			line, err := sanitize.Input(scanner.Text())
			if err != nil {
				fmt.Printf("Sorry, I can't use that input: %v\n", err)
				continue
			}
			return strings.TrimSpace(line), true
		}
	}

	// Phase 1: discovery.
	disc := assistant.NewDiscovery()
	disc.Start()

	var suggestions []string
	for {
		q := disc.CurrentQuestion()
		if q == nil {
			break
		}
		show(tui.QuestionMarkdown(q))

		raw, ok := readLine()
		if !ok {
			return
		}
		step, err := disc.SubmitAnswer(resolveOption(q, raw))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if step.Completed {
			suggestions = step.Suggestions
			break
		}
	}
	if len(suggestions) == 0 {
		return
	}
	show(tui.SuggestionsMarkdown(suggestions))

	// Phase 2: pick a template.
	templateID := suggestions[0]
	if len(suggestions) > 1 {
		fmt.Println("Which form would you like to fill out? (number or id)")
		raw, ok := readLine()
		if !ok {
			return
		}
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(suggestions) {
			templateID = suggestions[n-1]
		} else if raw != "" {
			templateID = raw
		}
	}

	// Phase 3: elicitation.
	el := assistant.NewElicitation()
	if err := el.Start(templateID); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	tpl, _ := assistant.Template(templateID)
	show(fmt.Sprintf("# %s\n\nLet's fill this out together.\n", tpl.Title))

	for {
		q := el.CurrentQuestion()
		if q == nil {
			break
		}
		show(tui.QuestionMarkdown(q))

		raw, ok := readLine()
		if !ok {
			return
		}
		step, err := el.SubmitAnswer(resolveOption(q, raw))
		if err != nil {
			if ve, isValidation := domain.AsValidationError(err); isValidation {
				fmt.Printf("That doesn't look right: %s\n\n", ve.Message)
				continue
			}
			fmt.Printf("Error: %v\n", err)
			return
		}
		if step.Completed {
			break
		}
	}

	summary := el.Summary()
	if summary == nil || !summary.Completed {
		return
	}

	var sb strings.Builder
	sb.WriteString("## All done\n\n")
	fmt.Fprintf(&sb, "Form: `%s`\n\n", summary.TemplateID)
	for _, f := range tpl.Fields {
		if v, ok := summary.Answers[f.Name]; ok && v != "" {
			fmt.Fprintf(&sb, "- **%s**: %s\n", f.Name, v)
		}
	}
	show(sb.String())
}

// resolveOption lets the user answer an option question by number.
func resolveOption(q *domain.Question, raw string) string {
	if len(q.Options) == 0 {
		return raw
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	return raw
}
