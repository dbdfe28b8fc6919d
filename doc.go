/*
Package formpilot helps users find and fill out the right service form.

It combines three pieces: a template catalog describing the available forms,
an intent matcher that scores free text against the catalog, and two small
state machines. Discovery walks the user through a branching questionnaire
until it can suggest templates; elicitation walks the chosen template's
fields one validated answer at a time.

The Assistant type wires these together with session persistence:

	assistant, err := formpilot.New()
	if err != nil {
		log.Fatal(err)
	}

	candidates := assistant.Match("I want to borrow against my policy", 3)

	err = assistant.Sessions().WithSession(ctx, "user-42", func(ctx context.Context, ws *session.Workspace) error {
		ws.Discovery.Start()
		// ... present ws.Discovery.CurrentQuestion(), submit answers ...
		return nil
	})

Sessions are stored in memory by default; pass WithStore to back them with
Redis for multi-replica deployments.
*/
package formpilot
