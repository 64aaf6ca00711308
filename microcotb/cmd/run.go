package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/microcotb/config"
	"github.com/sarchlab/microcotb/datarecording"
	"github.com/sarchlab/microcotb/examples/basic"
	"github.com/sarchlab/microcotb/monitoring"
	"github.com/sarchlab/microcotb/runner"
	"github.com/sarchlab/microcotb/signal"
	"github.com/sarchlab/microcotb/tracing"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the basic testbench.",
	Long: "`run` runs every test of the basic counter testbench and prints " +
		"a summary. The exit code is 1 if any test failed.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		tracePath, _ := cmd.Flags().GetString("trace")

		summary := runTestbench(c, tracePath)

		_, err = summary.WriteTo(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if !summary.Passed() {
			atexit.Exit(1)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().String("env", "", "the .env file to read settings from")
	runCmd.Flags().String("db", "",
		"record results to this SQLite database (without .sqlite3)")
	runCmd.Flags().Int("monitor-port", 0,
		"serve the monitor on this port (0 picks a random port)")
	runCmd.Flags().Bool("monitor", false, "start the monitoring server")
	runCmd.Flags().Bool("open", false, "open the monitor in a browser")
	runCmd.Flags().String("log-level", "", "debug, info, warn or error")
	runCmd.Flags().String("trace", "",
		"dump signal changes to this CSV file (without .csv)")

	rootCmd.AddCommand(runCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env")

	c, err := config.Load(envFile)
	if err != nil {
		return c, err
	}

	flags := cmd.Flags()

	if flags.Changed("db") {
		c.DBPath, _ = flags.GetString("db")
	}

	if flags.Changed("monitor-port") || flags.Changed("monitor") {
		c.MonitorPort, _ = flags.GetInt("monitor-port")
	}

	if flags.Changed("open") {
		c.OpenBrowser, _ = flags.GetBool("open")
	}

	if flags.Changed("log-level") {
		s, _ := flags.GetString("log-level")

		c.LogLevel, err = config.ParseLogLevel(s)
		if err != nil {
			return c, err
		}
	}

	return c, nil
}

func runTestbench(c config.Config, tracePath string) *runner.Summary {
	logger := c.Logger()

	r := runner.New[*basic.DUT]().WithLogger(logger)
	basic.Register(r)

	if c.DBPath != "" {
		recorder := datarecording.New(c.DBPath)
		r.AcceptHook(datarecording.NewResultRecorder(recorder, r.Context()))
	}

	if c.MonitorPort >= 0 {
		m := monitoring.NewMonitor().
			WithPortNumber(c.MonitorPort).
			WithOpenBrowser(c.OpenBrowser)
		m.RegisterRunner(r)
		m.RegisterContext(r.Context())
		m.StartServer()
	}

	dut := basic.MakeBuilder().
		WithLogger(logger).
		Build("tt_um_factory_test")

	if tracePath != "" {
		writer := tracing.NewCSVTraceWriter(tracePath)
		writer.Init()

		tracer := tracing.NewSignalTracer(r.Context(), writer)
		r.AcceptHook(tracer)

		for _, w := range []*signal.Wire{dut.Clk, dut.RstN, dut.UiIn, dut.UoOut} {
			tracer.Trace(w)
		}
	}

	fmt.Fprintf(os.Stderr, "Running %d tests\n", len(r.Tests()))

	return r.RunAll(dut)
}
