package proto

import "strings"

// Parameter pairs one classified type with its declared name. Immutable once
// parsed; owned exclusively by its Prototype.
type Parameter struct {
	Type TypeDesc
	Name string
}

// parseParameter parses one comma-separated prototype fragment such as
// "struct ibv_mr * mr". The last space-separated token is always the
// parameter name; every token before it, rejoined with spaces, is the type
// string. This is what lets pointer markers ("*", "**") belong to the type
// rather than the name.
//
// An empty parameter list must be special-cased by the caller; this function
// assumes a non-empty fragment.
func parseParameter(fragment string) Parameter {
	tokens := strings.Split(strings.TrimSpace(fragment), " ")

	return Parameter{
		Type: ParseType(strings.Join(tokens[:len(tokens)-1], " ")),
		Name: tokens[len(tokens)-1],
	}
}

// Expr returns the canonical "TYPE NAME" expression for the parameter,
// exactly as it appears in a declaration.
func (p Parameter) Expr() string {
	return p.Type.Raw + " " + p.Name
}
