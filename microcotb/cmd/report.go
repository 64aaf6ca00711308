package cmd

import (
	"context"
	"fmt"

	"github.com/sarchlab/microcotb/datarecording"
	"github.com/sarchlab/microcotb/timing"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [database.sqlite3]",
	Short: "Print the recorded results of earlier runs.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := datarecording.NewReader(args[0])
		defer reader.Close()

		failedOnly, _ := cmd.Flags().GetBool("failed")

		return printReport(cmd, reader, failedOnly)
	},
}

func init() {
	reportCmd.Flags().Bool("failed", false, "only show failed tests")

	rootCmd.AddCommand(reportCmd)
}

func printReport(
	cmd *cobra.Command,
	reader datarecording.DataReader,
	failedOnly bool,
) error {
	reader.MapTable(datarecording.ResultTable, datarecording.ResultEntry{})

	params := datarecording.QueryParams{OrderBy: "rowid"}
	if failedOnly {
		params.Where = "Failed = ?"
		params.Args = []any{true}
	}

	results, total, err := reader.Query(
		context.Background(), datarecording.ResultTable, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		e := r.(*datarecording.ResultEntry)
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
			e.Run, e.Test, e.Outcome,
			timing.New(e.SimTimeNS, timing.NS), e.Message)
	}

	fmt.Fprintf(out, "%d results\n", total)

	return nil
}
