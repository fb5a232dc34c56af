package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"hypercall-generator/internal/port"
)

// Diagnostic code for colliding port allocations surfaced by `check`.
const codeDuplicateFunction = "duplicate-function"

// newCheckCommand creates the `check` command: model the prototypes and
// allocate ports without writing anything, reporting every diagnostic.
func newCheckCommand() *cobra.Command {
	var (
		opts commonOptions
		dump bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the prototypes file without generating anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(&opts, dump)
		},
	}

	opts.install(cmd.Flags())
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the parsed prototype models")

	return cmd
}

func runCheck(opts *commonOptions, dump bool) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	protos, diags, err := parsePrototypes(cfg.Prototypes)
	if err != nil {
		return err
	}

	if _, err := port.Allocate(protos, cfg.PortBase); err != nil {
		var allocErr *port.AllocationError
		if !errors.As(err, &allocErr) {
			return err
		}

		diags.AddError(codeDuplicateFunction, allocErr.Error(), allocErr.Function, "")
	}

	for _, d := range diags.Errors {
		fmt.Printf("error: %s\n", d.String())
	}
	for _, d := range diags.Warnings {
		fmt.Printf("warning: %s\n", d.String())
	}
	for _, d := range diags.Infos {
		fmt.Printf("info: %s\n", d.String())
	}

	if dump {
		spew.Fdump(os.Stdout, protos)
	}

	fmt.Printf("%d prototypes, %d warnings, %d errors\n", len(protos), len(diags.Warnings), len(diags.Errors))

	return diags.Error()
}
