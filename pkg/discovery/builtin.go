package discovery

// Canonical root answers. The follow-up tables and the suggestion priority
// map key on these exact strings.
const (
	rootNodeID = "intent"

	AnswerChangeBeneficiary = "Change beneficiary information"
	AnswerSurrender         = "Surrender my policy"
	AnswerPolicyLoan        = "Request a policy loan"
	AnswerUpdateAddress     = "Update my address"
	AnswerLostPolicy        = "Replace a lost policy"
	AnswerSomethingElse     = "Something else"

	AnswerFullSurrender    = "Full surrender"
	AnswerPartialSurrender = "Partial surrender"
)

// DefaultSuggestionID is suggested when neither the priority map nor the
// keyword scan produces a template. Completion always yields at least one
// suggestion; see the engine docs for the trade-off this implies.
const DefaultSuggestionID = "service-request"

// BuiltinGraph returns the stock discovery questionnaire.
// The topology is fixed: a root intent question, one clarifying follow-up
// per branch, and free-text leaves that end the walk on any answer.
func BuiltinGraph() *Graph {
	g, err := NewGraph(rootNodeID, []Node{
		{
			ID:     rootNodeID,
			Prompt: "What would you like to do today?",
			Options: []string{
				AnswerChangeBeneficiary,
				AnswerSurrender,
				AnswerPolicyLoan,
				AnswerUpdateAddress,
				AnswerLostPolicy,
				AnswerSomethingElse,
			},
			FollowUp: map[string]string{
				AnswerChangeBeneficiary: "beneficiary-type",
				AnswerSurrender:         "surrender-type",
				AnswerPolicyLoan:        "loan-detail",
				AnswerUpdateAddress:     "address-detail",
				AnswerLostPolicy:        "lost-reason",
				AnswerSomethingElse:     "other-detail",
			},
		},
		{
			ID:      "beneficiary-type",
			Prompt:  "Which beneficiary designation do you want to change?",
			Options: []string{"Primary", "Contingent", "Both"},
		},
		{
			ID:      "surrender-type",
			Prompt:  "Do you want to surrender the full policy, or only part of it?",
			Options: []string{AnswerFullSurrender, AnswerPartialSurrender},
			FollowUp: map[string]string{
				AnswerPartialSurrender: "nonforfeiture-option",
			},
		},
		{
			ID:      "nonforfeiture-option",
			Prompt:  "Which option are you considering for the remaining value?",
			Options: []string{"Partial Withdrawal", "Reduced Paid-Up", "Extended Term"},
		},
		{
			ID:     "loan-detail",
			Prompt: "Roughly how much would you like to borrow?",
		},
		{
			ID:     "address-detail",
			Prompt: "What is your new address?",
		},
		{
			ID:      "lost-reason",
			Prompt:  "What happened to the original policy document?",
			Options: []string{"Lost", "Destroyed", "Never Received"},
		},
		{
			ID:     "other-detail",
			Prompt: "Briefly describe what you need help with.",
		},
	})
	if err != nil {
		// The builtin graph is covered by tests; reaching this means the
		// binary itself is broken.
		panic(err)
	}
	return g
}

// rootSuggestions maps canonical root answers to suggested template ids.
// The surrender branch is absent on purpose: it resolves on the secondary
// answer instead (full vs partial / non-forfeiture).
var rootSuggestions = map[string][]string{
	AnswerChangeBeneficiary: {"beneficiary-change"},
	AnswerPolicyLoan:        {"policy-loan"},
	AnswerUpdateAddress:     {"address-change"},
	AnswerLostPolicy:        {"duplicate-policy"},
}
