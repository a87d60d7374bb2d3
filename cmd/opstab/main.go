// Command opstab maintains the operations table: configuration parameters,
// scheduled jobs and server connection profiles in one INI file, with
// secrets sealed by a local key file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.4.0"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "opstab",
		Short:         "Operations table maintenance utility",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String("config", "opstab.yaml", "settings file (YAML or JSON)")

	cmd.AddCommand(paramCmd())
	cmd.AddCommand(jobCmd())
	cmd.AddCommand(serverCmd())
	return cmd
}
