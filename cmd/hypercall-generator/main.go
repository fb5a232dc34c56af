// Package main provides the CLI entrypoint for hypercall-generator.
//
// hypercall-generator reads a flat list of C function prototypes and emits
// the synchronized code artifacts that bridge a guest kernel and a
// hypervisor host across a port-IO exit: packed argument records, guest
// stubs, host dispatch functions, the port enum/macro table, and forward
// declarations.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "hypercall-generator",
		Short:         "Generate guest/host hypercall bridge code from C function prototypes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		newGenCommand(),
		newCheckCommand(),
		newPortsCommand(),
	)

	return cmd
}
