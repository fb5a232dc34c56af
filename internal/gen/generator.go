package gen

import (
	"fmt"
	"strings"

	"hypercall-generator/internal/port"
	"hypercall-generator/internal/proto"
)

// Config holds configuration for code generation.
type Config struct {
	// KernelPath receives the guest-side records and stub functions.
	KernelPath string
	// KernelHeaderPath receives the guest-side forward declarations.
	KernelHeaderPath string
	// HostFunctionsPath receives the host-side dispatch function definitions.
	HostFunctionsPath string
	// HostCasesPath receives the exit switch-cases for the host loop.
	HostCasesPath string
	// PortHeaderPath receives the port enum, record types, and host declarations.
	PortHeaderPath string
	// PortMacrosPath receives the port #define macros.
	PortMacrosPath string

	// EnumTypeName is the typedef name of the generated port enum.
	EnumTypeName string
	// ControlPortName is the symbol of the reserved control port below the base.
	ControlPortName string
	// PoolFlag is the host symbol marking the shared memory pool in use.
	PoolFlag string
	// PoolBasePtr and PoolTopPtr are the host pool pointers set by the
	// control operation.
	PoolBasePtr string
	PoolTopPtr  string

	// TraceCalls emits a log line at the top of each host dispatch function.
	TraceCalls bool
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		KernelPath:        "GEN-kernel.c",
		KernelHeaderPath:  "GEN-kernel-header.h",
		HostFunctionsPath: "GEN-tools-uhyve-ibv.c",
		HostCasesPath:     "GEN-tools-uhyve.c",
		PortHeaderPath:    "GEN-tools-uhyve-ibv-ports.h",
		PortMacrosPath:    "GEN-include-hermit-stddef.h",
		EnumTypeName:      "uhyve_ibv_t",
		ControlPortName:   "UHYVE_PORT_SET_IB_POOL_ADDR",
		PoolFlag:          "use_ib_mem_pool",
		PoolBasePtr:       "ib_pool_addr",
		PoolTopPtr:        "ib_pool_top",
		TraceCalls:        true,
	}
}

// Generator renders all bridge artifacts from the prototype models and the
// port table. Emission is a pure projection: each artifact depends only on
// the models' declared order and the shared derived names.
type Generator struct {
	config Config
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config Config) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents one generated source file.
type GeneratedFile struct {
	// Filename is the configured output path.
	Filename string
	// Content is the rendered text.
	Content []byte
}

// portEntry pairs one prototype with its assigned port code.
type portEntry struct {
	p    *proto.Prototype
	code int
}

// Generate renders the six output files from the given prototypes and port
// table. The prototypes must be the same sequence, in the same order, that
// the table was allocated from.
func (g *Generator) Generate(protos []*proto.Prototype, table *port.Table) ([]GeneratedFile, error) {
	entries, err := g.entries(protos, table)
	if err != nil {
		return nil, err
	}

	kernel, err := g.kernelFile(entries)
	if err != nil {
		return nil, err
	}

	hostFuncs, err := g.hostFunctionsFile(entries)
	if err != nil {
		return nil, err
	}

	portHeader, err := g.portHeaderFile(entries, table)
	if err != nil {
		return nil, err
	}

	return []GeneratedFile{
		{Filename: g.config.HostCasesPath, Content: []byte(g.dispatchCases(entries))},
		{Filename: g.config.PortMacrosPath, Content: []byte(g.portMacros(entries, table))},
		{Filename: g.config.PortHeaderPath, Content: []byte(portHeader)},
		{Filename: g.config.HostFunctionsPath, Content: []byte(hostFuncs)},
		{Filename: g.config.KernelHeaderPath, Content: []byte(g.kernelHeaderFile(entries))},
		{Filename: g.config.KernelPath, Content: []byte(kernel)},
	}, nil
}

// entries resolves each prototype's port code up front so the emitters below
// cannot observe a partially allocated table.
func (g *Generator) entries(protos []*proto.Prototype, table *port.Table) ([]portEntry, error) {
	entries := make([]portEntry, 0, len(protos))

	for _, p := range protos {
		code, ok := table.Code(p.Name)
		if !ok {
			return nil, fmt.Errorf("no port allocated for function %q", p.Name)
		}

		entries = append(entries, portEntry{p: p, code: code})
	}

	return entries, nil
}

// portHeaderFile assembles the host header: port enum, then every record
// type, then the host dispatch declarations.
func (g *Generator) portHeaderFile(entries []portEntry, table *port.Table) (string, error) {
	var b strings.Builder

	b.WriteString(g.portEnum(entries, table))
	b.WriteString("\n\n")

	for _, e := range entries {
		record, err := g.recordType(e.p)
		if err != nil {
			return "", err
		}

		b.WriteString(record)
		b.WriteString("\n")
	}
	b.WriteString("\n\n")

	for _, e := range entries {
		b.WriteString(hostDeclaration(e.p))
	}

	return b.String(), nil
}

// hostFunctionsFile concatenates all host dispatch function definitions.
func (g *Generator) hostFunctionsFile(entries []portEntry) (string, error) {
	var b strings.Builder

	for _, e := range entries {
		fn, err := g.hostFunction(e.p)
		if err != nil {
			return "", err
		}

		b.WriteString(prettyComment(e.p.Name))
		b.WriteString(fn)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}

// kernelFile assembles the guest side: per prototype a banner comment, the
// record type, and the stub function.
func (g *Generator) kernelFile(entries []portEntry) (string, error) {
	var b strings.Builder

	for _, e := range entries {
		record, err := g.recordType(e.p)
		if err != nil {
			return "", err
		}

		stub, err := g.guestStub(e.p)
		if err != nil {
			return "", err
		}

		b.WriteString(prettyComment(e.p.Name))
		b.WriteString(record)
		b.WriteString("\n")
		b.WriteString(stub)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}

// kernelHeaderFile concatenates the guest-side forward declarations.
func (g *Generator) kernelHeaderFile(entries []portEntry) string {
	var b strings.Builder

	for _, e := range entries {
		b.WriteString(kernelDeclaration(e.p))
	}

	return b.String()
}

// prettyComment returns the banner comment preceding generated definitions.
func prettyComment(name string) string {
	return fmt.Sprintf("/*\n * %s\n */\n\n", name)
}

// hexCode renders a port code the way the artifacts embed it.
func hexCode(code int) string {
	return fmt.Sprintf("0x%X", code)
}
