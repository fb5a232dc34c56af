package proto

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"hypercall-generator/internal/common"
	"hypercall-generator/internal/diagnostic"
)

// Diagnostic codes attached while modeling prototypes.
const (
	CodeUnsupportedPointerDepth = "unsupported-pointer-depth"
	CodePointerPointerParam     = "pointer-pointer-param"
	CodeCharPointerParam        = "char-pointer-param"
)

// ParseFile reads prototypes from r, one per line, skipping blank lines.
// Parsing stops at the first malformed line; nothing is emitted from a
// partially modeled input. The returned diagnostics carry non-fatal notices
// about type shapes the generator handles only partially.
func ParseFile(r io.Reader) ([]*Prototype, diagnostic.Diagnostics, error) {
	var (
		protos []*Prototype
		diags  diagnostic.Diagnostics
	)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		p, err := ParsePrototype(line, lineNum)
		if err != nil {
			return nil, diags, err
		}

		lint(p, &diags)
		protos = append(protos, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, diags, fmt.Errorf("failed to read prototypes: %w", err)
	}

	return protos, diags, nil
}

// lint records non-fatal notices about shapes the emitters either degrade on
// or hand back to the developer.
func lint(p *Prototype, diags *diagnostic.Diagnostics) {
	for _, param := range p.Params {
		lintType(p.Name, param.Name, param.Type, true, diags)
	}

	lintType(p.Name, "return value", p.Ret, false, diags)
}

func lintType(function, locus string, d TypeDesc, isParam bool, diags *diagnostic.Diagnostics) {
	if isDeepPointer(d) {
		diags.AddWarning(CodeUnsupportedPointerDepth,
			"pointer depth above two is not supported; the descriptor is best-effort",
			function, locus)
		return
	}

	if !isParam {
		return
	}

	if d.IsPointerPointer() {
		diags.AddWarning(CodePointerPointerParam,
			"double indirection is not translated; the generated stub contains a manual-completion placeholder",
			function, locus)
	}

	if d.IsCharArray() {
		diags.AddInfo(CodeCharPointerParam,
			"char data crosses the boundary as a raw pointer; length is not marshaled",
			function, locus)
	}
}

// isDeepPointer reports a trailing pointer marker of depth three or more,
// which the classifier deliberately leaves unflagged.
func isDeepPointer(d TypeDesc) bool {
	last, ok := common.Last(d.tokens)
	if !ok {
		return false
	}

	return len(last) > 2 && strings.Count(last, "*") == len(last)
}
