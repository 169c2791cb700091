// Command ttctl is the offline counterpart to the HTTP gateway: it
// drives the same generate/repair/verify/normalize operations directly
// against the database for scripted and operator use, without standing
// up a server. Each subcommand exits 0 on success and 1 on failure or
// infeasibility, so it composes in shell pipelines and CI jobs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ttctl",
		Short: "Offline control plane for the timetable generation core",
	}
	root.AddCommand(
		newGenerateCmd(),
		newRepairCmd(),
		newVerifyCmd(),
		newNormalizeCmd(),
	)
	return root
}
