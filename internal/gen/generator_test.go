package gen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypercall-generator/internal/port"
	"hypercall-generator/internal/proto"
)

func generate(t *testing.T, cfg Config, base int, lines ...string) []GeneratedFile {
	t.Helper()

	protos := make([]*proto.Prototype, 0, len(lines))
	for i, line := range lines {
		p, err := proto.ParsePrototype(line, i+1)
		require.NoError(t, err)
		protos = append(protos, p)
	}

	table, err := port.Allocate(protos, base)
	require.NoError(t, err)

	files, err := NewGenerator(cfg).Generate(protos, table)
	require.NoError(t, err)
	require.Len(t, files, 6)

	return files
}

func fileContent(t *testing.T, files []GeneratedFile, name string) string {
	t.Helper()

	for _, f := range files {
		if f.Filename == name {
			return string(f.Content)
		}
	}

	t.Fatalf("no generated file named %s", name)
	return ""
}

func TestGenerate_KernelFile(t *testing.T) {
	files := generate(t, DefaultConfig(), 0x610,
		"int ibv_rereg_mr(struct ibv_mr * mr, int flags, struct ibv_pd * pd)")

	want := `/*
 * ibv_rereg_mr
 */

typedef struct {
	// Parameters:
	struct ibv_mr * mr;
	int flags;
	struct ibv_pd * pd;
	// Return value:
	int ret;
} __attribute__((packed)) uhyve_ibv_rereg_mr_t;

int ibv_rereg_mr(struct ibv_mr * mr, int flags, struct ibv_pd * pd) {
	uhyve_ibv_rereg_mr_t uhyve_args;
	uhyve_args.mr = mr;
	uhyve_args.flags = flags;
	uhyve_args.pd = pd;

	uhyve_send(UHYVE_PORT_IBV_REREG_MR, (unsigned) virt_to_phys((size_t) &uhyve_args));

	return uhyve_args.ret;
}


`

	got := fileContent(t, files, "GEN-kernel.c")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kernel file mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_VoidReturn(t *testing.T) {
	files := generate(t, DefaultConfig(), 0x610,
		"void ibv_ack_async_event(struct ibv_async_event * event)")

	kernel := fileContent(t, files, "GEN-kernel.c")

	// No ret field and no return statement for void functions.
	assert.NotContains(t, kernel, "// Return value:")
	assert.NotContains(t, kernel, "ret;")
	assert.NotContains(t, kernel, "return uhyve_args.ret")

	want := `/*
 * ibv_ack_async_event
 */

void call_ibv_ack_async_event(struct kvm_run * run, uint8_t * guest_mem) {
	printf("LOG: UHYVE - call_ibv_ack_async_event\n");
	unsigned data = *((unsigned*) ((size_t) run + run->io.data_offset));
	uhyve_ibv_ack_async_event_t * args = (uhyve_ibv_ack_async_event_t *) (guest_mem + data);

	use_ib_mem_pool = true;
	ibv_ack_async_event(args->event);
	use_ib_mem_pool = false;
}


`

	got := fileContent(t, files, "GEN-tools-uhyve-ibv.c")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("host functions mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_PointerPointerPlaceholder(t *testing.T) {
	files := generate(t, DefaultConfig(), 0x610,
		"int ibv_get_cq_event(struct ibv_comp_channel * channel, struct ibv_cq ** cq, void ** cq_context)")

	kernel := fileContent(t, files, "GEN-kernel.c")

	// The record still carries the field; the stub gets a placeholder
	// instead of a copy.
	assert.Contains(t, kernel, "struct ibv_cq ** cq;")
	assert.Contains(t, kernel, "\t// TODO: Take care of ** parameter.\n")
	assert.Contains(t, kernel, "uhyve_args.channel = channel;")
	assert.NotContains(t, kernel, "uhyve_args.cq = cq;")
	assert.NotContains(t, kernel, "uhyve_args.cq_context = cq_context;")
}

func TestGenerate_PortTable(t *testing.T) {
	files := generate(t, DefaultConfig(), 0x610,
		"int f1(int a)",
		"int f2(int a)",
		"int f3(int a)")

	wantMacros := `#define UHYVE_PORT_SET_IB_POOL_ADDR 0x60F
#define UHYVE_PORT_F1 0x610
#define UHYVE_PORT_F2 0x611
#define UHYVE_PORT_F3 0x612
`

	got := fileContent(t, files, "GEN-include-hermit-stddef.h")
	if diff := cmp.Diff(wantMacros, got); diff != "" {
		t.Errorf("macros mismatch (-want +got):\n%s", diff)
	}

	wantEnum := `typedef enum {
	UHYVE_PORT_SET_IB_POOL_ADDR = 0x60F,
	UHYVE_PORT_F1 = 0x610,
	UHYVE_PORT_F2 = 0x611,
	UHYVE_PORT_F3 = 0x612,
} uhyve_ibv_t;`

	header := fileContent(t, files, "GEN-tools-uhyve-ibv-ports.h")
	assert.True(t, strings.HasPrefix(header, wantEnum+"\n\n"))
}

func TestGenerate_DispatchCases(t *testing.T) {
	files := generate(t, DefaultConfig(), 0x610,
		"int ibv_fork_init()",
		"void ibv_free_device_list(struct ibv_device ** list)")

	want := "\t\t\tcase UHYVE_PORT_SET_IB_POOL_ADDR: {\n" +
		"\t\t\t\t\tunsigned data = *((unsigned*)((size_t)run+run->io.data_offset));\n" +
		"\t\t\t\t\tuint64_t * temp = (uint64_t*)(guest_mem + data);\n" +
		"\t\t\t\t\tib_pool_addr = (uint8_t*) *temp;\n" +
		"\t\t\t\t\tib_pool_top = ib_pool_addr;\n" +
		"\t\t\t\t\tbreak;\n" +
		"\t\t\t}\n\n" +
		"\t\t\tcase UHYVE_PORT_IBV_FORK_INIT:\n" +
		"\t\t\t\tcall_ibv_fork_init(run, guest_mem);\n" +
		"\t\t\t\tbreak;\n" +
		"\t\t\tcase UHYVE_PORT_IBV_FREE_DEVICE_LIST:\n" +
		"\t\t\t\tcall_ibv_free_device_list(run, guest_mem);\n" +
		"\t\t\t\tbreak;\n"

	got := fileContent(t, files, "GEN-tools-uhyve.c")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dispatch cases mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_ZeroParameterCall(t *testing.T) {
	files := generate(t, DefaultConfig(), 0x610, "int ibv_fork_init()")

	host := fileContent(t, files, "GEN-tools-uhyve-ibv.c")
	assert.Contains(t, host, "args->ret = ibv_fork_init();")

	kernel := fileContent(t, files, "GEN-kernel.c")
	assert.Contains(t, kernel, "int ibv_fork_init() {")
}

func TestGenerate_Declarations(t *testing.T) {
	files := generate(t, DefaultConfig(), 0x610,
		"int ibv_rereg_mr(struct ibv_mr * mr, int flags, struct ibv_pd * pd)",
		"void ibv_ack_async_event(struct ibv_async_event * event)")

	wantKernelHeader := `int ibv_rereg_mr(struct ibv_mr * mr, int flags, struct ibv_pd * pd);
void ibv_ack_async_event(struct ibv_async_event * event);
`

	got := fileContent(t, files, "GEN-kernel-header.h")
	if diff := cmp.Diff(wantKernelHeader, got); diff != "" {
		t.Errorf("kernel header mismatch (-want +got):\n%s", diff)
	}

	header := fileContent(t, files, "GEN-tools-uhyve-ibv-ports.h")
	assert.Contains(t, header, "void call_ibv_rereg_mr(struct kvm_run * run, uint8_t * guest_mem);\n")
	assert.Contains(t, header, "void call_ibv_ack_async_event(struct kvm_run * run, uint8_t * guest_mem);\n")
}

func TestGenerate_NamesAgreeAcrossArtifacts(t *testing.T) {
	lines := []string{
		"int ibv_rereg_mr(struct ibv_mr * mr, int flags, struct ibv_pd * pd)",
		"void ibv_ack_async_event(struct ibv_async_event * event)",
		"int ibv_fork_init()",
	}

	files := generate(t, DefaultConfig(), 0x610, lines...)

	kernel := fileContent(t, files, "GEN-kernel.c")
	header := fileContent(t, files, "GEN-tools-uhyve-ibv-ports.h")
	host := fileContent(t, files, "GEN-tools-uhyve-ibv.c")
	cases := fileContent(t, files, "GEN-tools-uhyve.c")
	macros := fileContent(t, files, "GEN-include-hermit-stddef.h")

	for _, line := range lines {
		p, err := proto.ParsePrototype(line, 1)
		require.NoError(t, err)

		// The record type name, port name, and dispatch function name must be
		// character-for-character identical wherever they appear.
		assert.Contains(t, kernel, p.RecordName())
		assert.Contains(t, header, p.RecordName())
		assert.Contains(t, host, p.RecordName())
		assert.Contains(t, header, p.PortName())
		assert.Contains(t, macros, p.PortName())
		assert.Contains(t, cases, p.PortName())
		assert.Contains(t, host, p.HostFuncName())
		assert.Contains(t, cases, p.HostFuncName())
	}
}

func TestGenerate_ConfiguredSymbols(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnumTypeName = "bridge_ports_t"
	cfg.ControlPortName = "BRIDGE_PORT_SET_POOL"
	cfg.PoolFlag = "pool_busy"
	cfg.PoolBasePtr = "pool_base"
	cfg.PoolTopPtr = "pool_top"
	cfg.TraceCalls = false

	files := generate(t, cfg, 0x200, "int f(int a)")

	header := fileContent(t, files, cfg.PortHeaderPath)
	assert.Contains(t, header, "BRIDGE_PORT_SET_POOL = 0x1FF,")
	assert.Contains(t, header, "} bridge_ports_t;")

	host := fileContent(t, files, cfg.HostFunctionsPath)
	assert.Contains(t, host, "pool_busy = true;")
	assert.NotContains(t, host, "printf(")

	cases := fileContent(t, files, cfg.HostCasesPath)
	assert.Contains(t, cases, "pool_base = (uint8_t*) *temp;")
	assert.Contains(t, cases, "pool_top = pool_base;")
}

func TestGenerate_RecordFieldOrderMatchesParameters(t *testing.T) {
	files := generate(t, DefaultConfig(), 0x610,
		"int ibv_rereg_mr(struct ibv_mr * mr, int flags, struct ibv_pd * pd)")

	kernel := fileContent(t, files, "GEN-kernel.c")

	mr := strings.Index(kernel, "struct ibv_mr * mr;")
	flags := strings.Index(kernel, "int flags;")
	pd := strings.Index(kernel, "struct ibv_pd * pd;")
	ret := strings.Index(kernel, "int ret;")

	require.NotEqual(t, -1, mr)
	require.NotEqual(t, -1, flags)
	require.NotEqual(t, -1, pd)
	require.NotEqual(t, -1, ret)

	assert.Less(t, mr, flags)
	assert.Less(t, flags, pd)
	assert.Less(t, pd, ret)
}
