package capability

import "context"

// Capability is an external action the agent may request by name.
//
// Execute never returns an error: any underlying fault (network failure,
// bad HTTP status, parse error, malformed expression) is converted at this
// boundary into a human-readable failure string, so the loop always has
// observation text to feed back to the model.
type Capability interface {
	// Name is the identifier the agent uses in Action directives.
	Name() string

	// Description is a short explanation shown in the system prompt.
	Description() string

	// Example is a sample invocation shown in the system prompt,
	// e.g. "calculate: 4 * 7 / 3".
	Example() string

	// Execute runs the capability with the given plain-text argument and
	// returns the observation text.
	Execute(ctx context.Context, argument string) string
}
