package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contractflow/internal/app"
	"contractflow/internal/config"
	"contractflow/internal/logger"
)

// configEnv names the variable holding an optional config file path.
const configEnv = config.EnvPrefix + "_CONFIG"

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contractflow <roster.csv>",
		Short: "Classify employee probation and contract progression",
		Long: `Reads a semicolon-delimited employee roster, keeps IT employees outside the
graduate program, classifies each probation and contract journey, and writes
the enriched dataset and key statistics.

Settings come from an optional YAML file named by ` + configEnv + ` and from
` + config.EnvPrefix + `_* environment variables.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAnalysis,
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(os.Getenv(configEnv))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "config:", err)
		return err
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "logger:", err)
		return err
	}
	defer log.Sync()

	res, err := app.New(cfg, log).Run(cmd.Context(), args[0])
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows loaded:                 %d\n", res.Cleanup.RowsLoaded)
	fmt.Fprintf(out, "Rows after name cleanup:     %d\n", res.Cleanup.RowsAfterNameCleanup)
	for _, step := range res.Eligibility.Steps {
		if step.Skipped {
			fmt.Fprintf(out, "Removed by %-18s skipped (missing %v)\n", step.Step+":", step.MissingFields)
			continue
		}
		fmt.Fprintf(out, "Removed by %-18s %d\n", step.Step+":", step.Removed)
	}
	fmt.Fprintf(out, "Dropped with unknown status: %d\n", res.Classification.DroppedUnknown)
	fmt.Fprintf(out, "Employees analysed:          %d\n", res.Summary.TotalAnalysed)
	fmt.Fprintf(out, "Probation pass rate:         %.2f%%\n", res.Summary.ProbationPassRate)
	for _, path := range res.Exported {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}
