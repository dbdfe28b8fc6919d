package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formpilot",
	Short: "Formpilot helps users find and fill out the right service form",
	Long: `Formpilot matches free-text requests against a catalog of form
templates, walks undecided users through a short discovery questionnaire,
and collects validated answers field by field once a form is chosen.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file")
}
