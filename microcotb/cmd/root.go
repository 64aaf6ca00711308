// Package cmd provides the command-line interface of microcotb.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "microcotb",
	Short: "Run cocotb-style testbenches on virtual time.",
	Long: `microcotb runs testbenches that drive a design through clocks and ` +
		`triggers on a virtual time line. Results can be recorded to SQLite ` +
		`and followed live through a monitoring server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
