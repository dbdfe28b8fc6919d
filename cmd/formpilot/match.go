package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [text...]",
	Short: "Score a request against the template catalog",
	Long: `Scores a free-text description of what the user needs against every
template and prints the candidates, best first.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

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

		input := strings.Join(args, " ")
		candidates := assistant.Match(input, limit)
		if len(candidates) == 0 {
			fmt.Println("No matching templates.")
			return
		}

		for _, c := range candidates {
			line := fmt.Sprintf("%-20s %.2f", c.TemplateID, c.Confidence)
			if len(c.MatchedKeywords) > 0 {
				line += "  (" + strings.Join(c.MatchedKeywords, ", ") + ")"
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().IntP("limit", "n", 5, "Maximum number of candidates to print (0 = all)")
}
