package gen

import (
	"fmt"
	"strings"

	"hypercall-generator/internal/port"
)

// portEnum renders the typedef enum mapping port names to codes. The
// reserved control port comes first, then the allocated ports in input order.
func (g *Generator) portEnum(entries []portEntry, table *port.Table) string {
	var b strings.Builder

	b.WriteString("typedef enum {\n")
	fmt.Fprintf(&b, "\t%s = %s,\n", g.config.ControlPortName, hexCode(table.Reserved()))

	for _, e := range entries {
		fmt.Fprintf(&b, "\t%s = %s,\n", e.p.PortName(), hexCode(e.code))
	}

	fmt.Fprintf(&b, "} %s;", g.config.EnumTypeName)

	return b.String()
}

// portMacros renders the equivalent #define macros, in the same order as the
// enum.
func (g *Generator) portMacros(entries []portEntry, table *port.Table) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#define %s %s\n", g.config.ControlPortName, hexCode(table.Reserved()))
	for _, e := range entries {
		fmt.Fprintf(&b, "#define %s %s\n", e.p.PortName(), hexCode(e.code))
	}

	return b.String()
}
