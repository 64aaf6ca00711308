package cmd

import (
	"fmt"

	"github.com/sarchlab/microcotb/examples/basic"
	"github.com/sarchlab/microcotb/runner"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tests of the basic testbench.",
	Run: func(cmd *cobra.Command, _ []string) {
		r := runner.New[*basic.DUT]()
		basic.Register(r)

		for _, tc := range r.Tests() {
			timeout := "-"
			if tc.HasTimeout {
				timeout = tc.Timeout.String()
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\ttimeout=%s\n", tc.Name, timeout)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
