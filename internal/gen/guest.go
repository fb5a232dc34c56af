package gen

import (
	"fmt"
	"strings"
	"text/template"

	"hypercall-generator/internal/proto"
)

// The guest stub copies each parameter into the record verbatim and triggers
// the exit with the function's port and the record's physical address.
// Pointer-pointer parameters are not translated automatically; they get a
// placeholder that must be completed by hand.
const guestStubTemplate = `{{.RetType}} {{.Name}}({{.ParamExpr}}) {
	{{.RecordName}} uhyve_args;
{{- range .Params}}
{{- if .Type.IsPointerPointer}}
	// TODO: Take care of ** parameter.
{{- else}}
	uhyve_args.{{.Name}} = {{.Name}};
{{- end}}
{{- end}}

	uhyve_send({{.PortName}}, (unsigned) virt_to_phys((size_t) &uhyve_args));
{{- if .HasRet}}

	return uhyve_args.ret;
{{- end}}
}
`

var guestStubTmpl = template.Must(template.New("guestStub").Parse(guestStubTemplate))

// guestStub renders the guest-side function that ships one call to the host.
func (g *Generator) guestStub(p *proto.Prototype) (string, error) {
	data := struct {
		Name       string
		RetType    string
		ParamExpr  string
		RecordName string
		PortName   string
		Params     []proto.Parameter
		HasRet     bool
	}{
		Name:       p.Name,
		RetType:    p.Ret.Raw,
		ParamExpr:  p.ParamExpr(),
		RecordName: p.RecordName(),
		PortName:   p.PortName(),
		Params:     p.Params,
		HasRet:     !p.Ret.IsVoid(),
	}

	var b strings.Builder
	if err := guestStubTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render guest stub for %s: %w", p.Name, err)
	}

	return b.String(), nil
}

// kernelDeclaration returns the guest stub's forward declaration.
func kernelDeclaration(p *proto.Prototype) string {
	return fmt.Sprintf("%s %s(%s);\n", p.Ret.Raw, p.Name, p.ParamExpr())
}
