package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/formpilot/formpilot"
	"github.com/formpilot/formpilot/internal/presentation/tui"
	"github.com/formpilot/formpilot/pkg/catalog"
	"github.com/formpilot/formpilot/pkg/domain"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the template catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available templates",
	Run: func(cmd *cobra.Command, args []string) {
		assistant := mustAssistant(cmd)
		for _, tpl := range assistant.Templates() {
			fmt.Printf("%-20s %s\n", tpl.ID, tpl.Title)
		}
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show one template in detail",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		assistant := mustAssistant(cmd)
		tpl, err := assistant.Template(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		render := tui.NewRenderer()
		out, err := render(templateMarkdown(tpl))
		if err != nil {
			// Fall back to the raw markdown when the terminal renderer fails.
			out = templateMarkdown(tpl)
		}
		fmt.Print(out)
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <catalog.yaml>",
	Short: "Validate a catalog file without starting anything",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := catalog.Load(args[0])
		if err != nil {
			fmt.Printf("Invalid catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK: %d templates\n", c.Len())
	},
}

func templateMarkdown(tpl domain.Template) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n\n", tpl.Title, tpl.Description)

	sb.WriteString("## Fields\n\n")
	for _, f := range tpl.Fields {
		req := ""
		if f.Required {
			req = " (required)"
		}
		fmt.Fprintf(&sb, "- **%s** — %s%s\n", f.Name, f.Kind, req)
		if len(f.Options) > 0 {
			fmt.Fprintf(&sb, "  - options: %s\n", strings.Join(f.Options, ", "))
		}
	}

	if len(tpl.Scenarios) > 0 {
		sb.WriteString("\n## Example requests\n\n")
		for _, s := range tpl.Scenarios {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}
	return sb.String()
}

func mustAssistant(cmd *cobra.Command) *formpilot.Assistant {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	assistant, err := buildAssistant(cfg, newLogger(cfg))
	if err != nil {
		fmt.Printf("Error initializing formpilot: %v\n", err)
		os.Exit(1)
	}
	return assistant
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}
