// Package config loads the YAML run configuration: where the prototypes come
// from, where the six artifacts go, the port numbering base, and the symbol
// names embedded in the generated text.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes one generation run.
type Config struct {
	// Prototypes is the path of the input file, one prototype per line.
	Prototypes string `yaml:"prototypes"`

	// PortBase is the code of the first allocated port. The control port is
	// always PortBase-1. YAML hex literals (0x610) are accepted.
	PortBase int `yaml:"port_base"`

	// Outputs holds the six artifact paths.
	Outputs Outputs `yaml:"outputs"`

	// Symbols holds the names embedded in the generated text.
	Symbols Symbols `yaml:"symbols"`

	// TraceCalls emits a log line at the top of each host dispatch function.
	// Defaults to true.
	TraceCalls *bool `yaml:"trace_calls,omitempty"`
}

// Outputs holds the artifact output paths.
type Outputs struct {
	Kernel        string `yaml:"kernel"`
	KernelHeader  string `yaml:"kernel_header"`
	HostFunctions string `yaml:"host_functions"`
	HostCases     string `yaml:"host_cases"`
	PortHeader    string `yaml:"port_header"`
	PortMacros    string `yaml:"port_macros"`
}

// Symbols holds the symbol names embedded in the generated text.
type Symbols struct {
	// EnumType is the typedef name of the port enum.
	EnumType string `yaml:"enum_type"`
	// ControlPort is the reserved control port's symbol.
	ControlPort string `yaml:"control_port"`
	// PoolFlag marks the host memory pool in use during a dispatched call.
	PoolFlag string `yaml:"pool_flag"`
	// PoolBase and PoolTop are the host pool pointers set by the control case.
	PoolBase string `yaml:"pool_base"`
	PoolTop  string `yaml:"pool_top"`
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{
		Prototypes: "function-prototypes.txt",
		PortBase:   0x610,
	}
	applyDefaults(cfg)

	return cfg
}

// LoadFile loads and parses a YAML configuration file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config, filling in defaults for omitted
// fields.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	setDefault(&cfg.Prototypes, "function-prototypes.txt")
	if cfg.PortBase == 0 {
		cfg.PortBase = 0x610
	}

	setDefault(&cfg.Outputs.Kernel, "GEN-kernel.c")
	setDefault(&cfg.Outputs.KernelHeader, "GEN-kernel-header.h")
	setDefault(&cfg.Outputs.HostFunctions, "GEN-tools-uhyve-ibv.c")
	setDefault(&cfg.Outputs.HostCases, "GEN-tools-uhyve.c")
	setDefault(&cfg.Outputs.PortHeader, "GEN-tools-uhyve-ibv-ports.h")
	setDefault(&cfg.Outputs.PortMacros, "GEN-include-hermit-stddef.h")

	setDefault(&cfg.Symbols.EnumType, "uhyve_ibv_t")
	setDefault(&cfg.Symbols.ControlPort, "UHYVE_PORT_SET_IB_POOL_ADDR")
	setDefault(&cfg.Symbols.PoolFlag, "use_ib_mem_pool")
	setDefault(&cfg.Symbols.PoolBase, "ib_pool_addr")
	setDefault(&cfg.Symbols.PoolTop, "ib_pool_top")

	if cfg.TraceCalls == nil {
		t := true
		cfg.TraceCalls = &t
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks the configuration for values the run cannot proceed with.
func (c *Config) Validate() error {
	if c.PortBase < 1 {
		return fmt.Errorf("port_base must be at least 1, got %d: the control port is port_base-1", c.PortBase)
	}

	if c.Prototypes == "" {
		return errors.New("prototypes input path must not be empty")
	}

	for _, out := range []struct {
		name string
		path string
	}{
		{"kernel", c.Outputs.Kernel},
		{"kernel_header", c.Outputs.KernelHeader},
		{"host_functions", c.Outputs.HostFunctions},
		{"host_cases", c.Outputs.HostCases},
		{"port_header", c.Outputs.PortHeader},
		{"port_macros", c.Outputs.PortMacros},
	} {
		if out.path == "" {
			return fmt.Errorf("output path %q must not be empty", out.name)
		}
	}

	return nil
}
