// Package domain holds the shared types of the assistant: templates and
// their field schemas, questions, match candidates, session snapshots and
// the error taxonomy. It has no dependencies on the engines or adapters.
package domain
