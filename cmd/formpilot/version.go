package main

import (
	"fmt"

	"github.com/formpilot/formpilot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of formpilot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("formpilot version %s\n", formpilot.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
