package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formpilot/formpilot/internal/presentation/graph"
	"github.com/formpilot/formpilot/pkg/discovery"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph.yaml]",
	Short: "Export the discovery questionnaire visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the discovery question
graph: the builtin one by default, or a YAML graph file given as argument.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g := discovery.BuiltinGraph()
		if len(args) > 0 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Printf("Error reading graph file: %v\n", err)
				os.Exit(1)
			}
			g, err = discovery.ParseGraph(data)
			if err != nil {
				fmt.Printf("Error parsing graph: %v\n", err)
				os.Exit(1)
			}
		}

		fmt.Print(graph.GenerateMermaid(g, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
