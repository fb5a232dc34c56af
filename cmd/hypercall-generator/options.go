package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"hypercall-generator/internal/config"
	"hypercall-generator/internal/diagnostic"
	"hypercall-generator/internal/proto"
)

// defaultConfigPath is looked up when --config is not given; a missing file
// there just means defaults.
const defaultConfigPath = "hypercall-gen.yaml"

// commonOptions are shared by all subcommands.
type commonOptions struct {
	configPath string
	prototypes string
	portBase   hexValue
	noTrace    bool
}

func (o *commonOptions) install(flags *pflag.FlagSet) {
	flags.StringVarP(&o.configPath, "config", "c", "", "Path to the YAML run configuration")
	flags.StringVarP(&o.prototypes, "prototypes", "i", "", "Path to the prototypes input file")
	flags.Var(&o.portBase, "port-base", "First allocated port code (decimal or 0x-prefixed hex)")
	flags.BoolVar(&o.noTrace, "no-trace", false, "Omit the log line in generated host dispatch functions")
}

// loadConfig builds the effective configuration: YAML file first, then flag
// overrides on top.
func (o *commonOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()

	path := o.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if o.prototypes != "" {
		cfg.Prototypes = o.prototypes
	}

	if o.portBase != 0 {
		cfg.PortBase = int(o.portBase)
	}

	if o.noTrace {
		f := false
		cfg.TraceCalls = &f
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parsePrototypes opens the input file and models every prototype line.
func parsePrototypes(path string) ([]*proto.Prototype, diagnostic.Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, fmt.Errorf("failed to open prototypes file %s: %w", path, err)
	}
	defer f.Close()

	return proto.ParseFile(f)
}

// hexValue is a pflag.Value accepting decimal or 0x-prefixed hex literals.
type hexValue int

var _ pflag.Value = (*hexValue)(nil)

func (h *hexValue) String() string {
	return fmt.Sprintf("0x%X", int(*h))
}

func (h *hexValue) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return fmt.Errorf("invalid port code %q: %w", s, err)
	}

	*h = hexValue(v)

	return nil
}

func (h *hexValue) Type() string {
	return "code"
}
