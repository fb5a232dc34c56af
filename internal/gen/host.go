package gen

import (
	"fmt"
	"strings"
	"text/template"

	"hypercall-generator/internal/proto"
)

// The host dispatch function locates the record through the exit context,
// reinterprets guest memory as the record type, and invokes the real
// implementation with the fields in declared order. The pool flag brackets
// the call; the generated path is single and synchronous, so the flag is
// always cleared again before the function returns.
const hostFunctionTemplate = `void {{.HostFunc}}(struct kvm_run * run, uint8_t * guest_mem) {
{{- if .Trace}}
	printf("LOG: UHYVE - {{.HostFunc}}\n");
{{- end}}
	unsigned data = *((unsigned*) ((size_t) run + run->io.data_offset));
	{{.RecordName}} * args = ({{.RecordName}} *) (guest_mem + data);

	{{.PoolFlag}} = true;
	{{if .HasRet}}args->ret = {{end}}{{.Name}}({{.Args}});
	{{.PoolFlag}} = false;
}
`

var hostFunctionTmpl = template.Must(template.New("hostFunction").Parse(hostFunctionTemplate))

// hostFunction renders the host-side dispatch function for one prototype.
func (g *Generator) hostFunction(p *proto.Prototype) (string, error) {
	args := make([]string, 0, len(p.Params))
	for _, param := range p.Params {
		args = append(args, "args->"+param.Name)
	}

	data := struct {
		Name       string
		HostFunc   string
		RecordName string
		PoolFlag   string
		Args       string
		HasRet     bool
		Trace      bool
	}{
		Name:       p.Name,
		HostFunc:   p.HostFuncName(),
		RecordName: p.RecordName(),
		PoolFlag:   g.config.PoolFlag,
		Args:       strings.Join(args, ", "),
		HasRet:     !p.Ret.IsVoid(),
		Trace:      g.config.TraceCalls,
	}

	var b strings.Builder
	if err := hostFunctionTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render host function for %s: %w", p.Name, err)
	}

	return b.String(), nil
}

// hostDeclaration returns the host dispatch function's forward declaration.
func hostDeclaration(p *proto.Prototype) string {
	return fmt.Sprintf("void %s(struct kvm_run * run, uint8_t * guest_mem);\n", p.HostFuncName())
}
