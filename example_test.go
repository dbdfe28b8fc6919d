package formpilot_test

import (
	"fmt"
	"log"

	"github.com/formpilot/formpilot"
	"github.com/formpilot/formpilot/pkg/discovery"
)

// ExampleAssistant_Match scores free text against the builtin catalog.
func ExampleAssistant_Match() {
	assistant, err := formpilot.New()
	if err != nil {
		log.Fatal(err)
	}

	for _, c := range assistant.Match("I want to change my beneficiary designation", 3) {
		fmt.Printf("%s %.2f\n", c.TemplateID, c.Confidence)
	}
	// Output:
	// beneficiary-change 1.00
}

// ExampleAssistant_NewDiscovery walks the builtin questionnaire down the
// policy-loan branch.
func ExampleAssistant_NewDiscovery() {
	assistant, err := formpilot.New()
	if err != nil {
		log.Fatal(err)
	}

	disc := assistant.NewDiscovery()
	disc.Start()

	fmt.Println(disc.CurrentQuestion().Prompt)

	if _, err := disc.SubmitAnswer(discovery.AnswerPolicyLoan); err != nil {
		log.Fatal(err)
	}
	fmt.Println(disc.CurrentQuestion().Prompt)

	step, err := disc.SubmitAnswer("about $2,000 against my policy")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(step.Suggestions[0])
	// Output:
	// What would you like to do today?
	// Roughly how much would you like to borrow?
	// policy-loan
}
