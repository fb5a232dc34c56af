package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hypercall-generator/internal/port"
)

// newPortsCommand creates the `ports` command: print the name-to-code table
// that generation would embed, control port first.
func newPortsCommand() *cobra.Command {
	var opts commonOptions

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Print the port allocation table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPorts(&opts)
		},
	}

	opts.install(cmd.Flags())

	return cmd
}

func runPorts(opts *commonOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	protos, _, err := parsePrototypes(cfg.Prototypes)
	if err != nil {
		return err
	}

	table, err := port.Allocate(protos, cfg.PortBase)
	if err != nil {
		return err
	}

	fmt.Printf("%s = 0x%X\n", cfg.Symbols.ControlPort, table.Reserved())

	for _, p := range protos {
		code, _ := table.Code(p.Name)
		fmt.Printf("%s = 0x%X\n", p.PortName(), code)
	}

	return nil
}
