package gen

import (
	"fmt"
	"strings"
)

// dispatchCases renders the switch-cases for the host exit loop: the fixed
// control case that latches the shared pool base out of guest memory, then
// one delegating case per prototype. The case labels and the delegated
// function names come from the same derived-name routines the other
// artifacts use, so the table cannot drift from the definitions.
func (g *Generator) dispatchCases(entries []portEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\t\t\tcase %s: {\n", g.config.ControlPortName)
	b.WriteString("\t\t\t\t\tunsigned data = *((unsigned*)((size_t)run+run->io.data_offset));\n")
	b.WriteString("\t\t\t\t\tuint64_t * temp = (uint64_t*)(guest_mem + data);\n")
	fmt.Fprintf(&b, "\t\t\t\t\t%s = (uint8_t*) *temp;\n", g.config.PoolBasePtr)
	fmt.Fprintf(&b, "\t\t\t\t\t%s = %s;\n", g.config.PoolTopPtr, g.config.PoolBasePtr)
	b.WriteString("\t\t\t\t\tbreak;\n")
	b.WriteString("\t\t\t}\n\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "\t\t\tcase %s:\n", e.p.PortName())
		fmt.Fprintf(&b, "\t\t\t\t%s(run, guest_mem);\n", e.p.HostFuncName())
		b.WriteString("\t\t\t\tbreak;\n")
	}

	return b.String()
}
