package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hypercall-generator/internal/common"
	"hypercall-generator/internal/config"
	"hypercall-generator/internal/gen"
	"hypercall-generator/internal/port"
)

// newGenCommand creates the `gen` command: model the prototypes, allocate
// ports, render all six artifacts, and write them atomically.
func newGenCommand() *cobra.Command {
	var opts commonOptions

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate all bridge artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(&opts)
		},
	}

	opts.install(cmd.Flags())

	return cmd
}

func runGen(opts *commonOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	protos, diags, err := parsePrototypes(cfg.Prototypes)
	if err != nil {
		return err
	}

	for _, w := range diags.Warnings {
		logrus.Warn(w.String())
	}
	for _, i := range diags.Infos {
		logrus.Debug(i.String())
	}

	if common.IsEmpty(protos) {
		logrus.Warnf("no prototypes found in %s; the artifacts will only carry the control port", cfg.Prototypes)
	}

	table, err := port.Allocate(protos, cfg.PortBase)
	if err != nil {
		return err
	}

	files, err := gen.NewGenerator(generatorConfig(cfg)).Generate(protos, table)
	if err != nil {
		return err
	}

	if err := gen.WriteFiles(files); err != nil {
		return err
	}

	for _, f := range files {
		logrus.Debugf("wrote %s (%d bytes)", f.Filename, len(f.Content))
	}
	logrus.Infof("generated %d files from %d prototypes (ports 0x%X..0x%X)",
		len(files), table.Len(), table.Reserved(), table.Base()+table.Len()-1)

	return nil
}

// generatorConfig translates the run configuration into the generator's.
func generatorConfig(cfg *config.Config) gen.Config {
	return gen.Config{
		KernelPath:        cfg.Outputs.Kernel,
		KernelHeaderPath:  cfg.Outputs.KernelHeader,
		HostFunctionsPath: cfg.Outputs.HostFunctions,
		HostCasesPath:     cfg.Outputs.HostCases,
		PortHeaderPath:    cfg.Outputs.PortHeader,
		PortMacrosPath:    cfg.Outputs.PortMacros,
		EnumTypeName:      cfg.Symbols.EnumType,
		ControlPortName:   cfg.Symbols.ControlPort,
		PoolFlag:          cfg.Symbols.PoolFlag,
		PoolBasePtr:       cfg.Symbols.PoolBase,
		PoolTopPtr:        cfg.Symbols.PoolTop,
		TraceCalls:        *cfg.TraceCalls,
	}
}
