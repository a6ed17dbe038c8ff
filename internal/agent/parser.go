package agent

import "regexp"

// Directive is a parsed (capability name, argument) pair extracted from
// model output. It is immutable and discarded after dispatch.
type Directive struct {
	Name     string
	Argument string
}

// directivePattern matches "Action: <name>: <rest-of-line>". The match is
// case-insensitive; <name> is one or more letters/underscores.
var directivePattern = regexp.MustCompile(`(?i)Action: ([a-z_]+): (.+)`)

// ExtractDirective returns the first directive found in a completion, or
// nil when none matches. Only the first match is honored even if the model
// emits several Action lines in one turn: the protocol allows at most one
// action per iteration. Whether the name refers to a registered capability
// is checked at dispatch, not here.
func ExtractDirective(text string) *Directive {
	match := directivePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	return &Directive{
		Name:     match[1],
		Argument: match[2],
	}
}
