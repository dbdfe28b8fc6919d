/*
Package dsl provides a fluent builder for constructing discovery question
graphs in Go instead of YAML.

It is useful for dynamic graph generation, unit tests, and anywhere
type-checking and IDE completion beat an external data file. The result
is a validated *discovery.Graph ready for discovery.WithGraph.

Example usage:

	b := dsl.New("intent")

	b.Ask("intent").
		Prompt("What do you need help with?").
		OptionTo("Report a claim", "claim-detail").
		OptionTo("Something else", "free-form")

	b.Ask("claim-detail").
		Prompt("What happened?")

	b.Ask("free-form").
		Prompt("Describe your request in your own words.")

	graph, err := b.Build()
	// ... pass discovery.WithGraph(graph) to discovery.New(...)
*/
package dsl
