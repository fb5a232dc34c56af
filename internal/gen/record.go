package gen

import (
	"fmt"
	"strings"
	"text/template"

	"hypercall-generator/internal/proto"
)

// The record type is addressed as raw bytes from both sides of the boundary,
// so it is declared packed and its field order is exactly the declared
// parameter order, followed by "ret" for non-void functions.
const recordTemplate = `typedef struct {
	// Parameters:
{{- range .Params}}
	{{.Expr}};
{{- end}}
{{- if .HasRet}}
	// Return value:
	{{.RetType}} ret;
{{- end}}
} __attribute__((packed)) {{.RecordName}};
`

var recordTmpl = template.Must(template.New("record").Parse(recordTemplate))

// recordType renders the packed argument/return record for one prototype.
func (g *Generator) recordType(p *proto.Prototype) (string, error) {
	data := struct {
		Params     []proto.Parameter
		HasRet     bool
		RetType    string
		RecordName string
	}{
		Params:     p.Params,
		HasRet:     !p.Ret.IsVoid(),
		RetType:    p.Ret.Raw,
		RecordName: p.RecordName(),
	}

	var b strings.Builder
	if err := recordTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render record type for %s: %w", p.Name, err)
	}

	return b.String(), nil
}
