package proto

import (
	"fmt"
	"strings"
)

// Prototype is the structural model of one C function prototype. Every
// generated artifact is a deterministic projection of this model, so it is
// immutable after construction and parameter order is preserved end-to-end:
// it fixes both the record type's field order and the dispatch call's
// argument order on the two sides of the boundary.
type Prototype struct {
	// Name is the function name.
	Name string
	// Ret is the classified return type.
	Ret TypeDesc
	// Params is the ordered parameter list.
	Params []Parameter
	// Line is the 1-based input line the prototype was parsed from.
	Line int
}

// ParseError reports a prototype line the parser could not model.
type ParseError struct {
	// Line is the 1-based line number of the offending input.
	Line int
	// Text is the raw offending line.
	Text string
	// Reason describes what was wrong.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ParsePrototype parses one raw prototype line shaped as
// "RETURN_TYPE FUNCTION_NAME(PARAM_TYPE PARAM_NAME, ...)". The line is split
// at the first "(": the left portion yields the return type (all tokens but
// the last, rejoined with spaces) and the function name (the last token); the
// portion before the final ")" is split on "," into per-parameter fragments.
func ParsePrototype(line string, lineNum int) (*Prototype, error) {
	open := strings.Index(line, "(")
	if open < 0 {
		return nil, &ParseError{Line: lineNum, Text: line, Reason: "missing opening parenthesis"}
	}

	last := strings.LastIndex(line, ")")
	if last < open {
		return nil, &ParseError{Line: lineNum, Text: line, Reason: "missing closing parenthesis"}
	}

	retAndName := strings.Split(strings.TrimSpace(line[:open]), " ")
	name := retAndName[len(retAndName)-1]
	if name == "" {
		return nil, &ParseError{Line: lineNum, Text: line, Reason: "empty function name"}
	}

	p := &Prototype{
		Name: name,
		Ret:  ParseType(strings.Join(retAndName[:len(retAndName)-1], " ")),
		Line: lineNum,
	}

	// A "()" parameter list is zero parameters, not one phantom parameter
	// with an empty type.
	rawParams := line[open+1 : last]
	if strings.TrimSpace(rawParams) != "" {
		for _, fragment := range strings.Split(rawParams, ",") {
			p.Params = append(p.Params, parseParameter(fragment))
		}
	}

	return p, nil
}

// NumParams returns the number of declared parameters.
func (p *Prototype) NumParams() int {
	return len(p.Params)
}

// ParamTypes returns the ordered list of raw parameter type strings.
func (p *Prototype) ParamTypes() []string {
	types := make([]string, 0, len(p.Params))
	for _, param := range p.Params {
		types = append(types, param.Type.Raw)
	}

	return types
}

// ParamExpr returns the canonical comma-joined parameter expression,
// "TYPE NAME, TYPE NAME, ...". Re-parsing a prototype built from this string
// yields identical parameters.
func (p *Prototype) ParamExpr() string {
	exprs := make([]string, 0, len(p.Params))
	for _, param := range p.Params {
		exprs = append(exprs, param.Expr())
	}

	return strings.Join(exprs, ", ")
}

// The derived names below are the join keys shared by every emitter. They are
// defined once here so the generated artifacts cannot disagree on naming.

// PortName returns the exit-port symbol, "UHYVE_PORT_" + uppercased name.
func (p *Prototype) PortName() string {
	return "UHYVE_PORT_" + strings.ToUpper(p.Name)
}

// RecordName returns the packed argument record's type name, "uhyve_<name>_t".
func (p *Prototype) RecordName() string {
	return fmt.Sprintf("uhyve_%s_t", p.Name)
}

// HostFuncName returns the host-side dispatch function name, "call_<name>".
func (p *Prototype) HostFuncName() string {
	return "call_" + p.Name
}
