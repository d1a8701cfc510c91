package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contractflow/internal/config"
	"contractflow/pkg/engine"
	"contractflow/pkg/parser"
	"contractflow/pkg/report"
	"contractflow/pkg/schema"
)

// RunResult carries every stage count of one run.
type RunResult struct {
	RunID          string
	Encoding       string
	Warnings       []parser.ParseWarning
	Mapping        []schema.MappingEntry
	Cleanup        schema.CleanupStats
	Eligibility    engine.EligibilityReport
	Classification engine.ClassificationReport
	Population     *engine.Population
	Summary        report.Summary
	Exported       []string
}

// App runs the roster analysis pipeline.
type App struct {
	cfg *config.Config
	log *zap.Logger
	// Now is the reference date for running contracts; time.Now when nil.
	Now func() time.Time
}

// New returns an App using cfg and log.
func New(cfg *config.Config, log *zap.Logger) *App {
	return &App{cfg: cfg, log: log}
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Run loads the roster at inputPath, classifies the eligible employees and
// writes the configured exports.
func (a *App) Run(ctx context.Context, inputPath string) (*RunResult, error) {
	res := &RunResult{RunID: uuid.NewString()}
	log := a.log.With(zap.String("run_id", res.RunID), zap.String("input", inputPath))
	now := a.now()

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	table, err := parser.StreamParse(data, a.cfg.Input.DelimiterRune())
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	res.Encoding = table.Encoding
	res.Warnings = table.Warnings
	for _, w := range table.Warnings {
		log.Warn("parse warning", zap.Int("row", w.Row), zap.String("message", w.Message))
	}

	mapping, err := schema.BuildFieldMapping(table.Headers, table.Records)
	if err != nil {
		log.Error("cannot resolve roster columns", zap.Error(err), zap.Strings("headers", table.Headers))
		return nil, err
	}
	res.Mapping = mapping.Entries()
	for _, e := range res.Mapping {
		if e.Found {
			log.Debug("column resolved", zap.String("field", string(e.Field)), zap.String("column", e.Column))
		} else {
			log.Warn("column not found", zap.String("field", string(e.Field)))
		}
	}

	records, cleanup := schema.NormalizeRoster(table.Records, mapping)
	res.Cleanup = cleanup
	log.Info("roster loaded",
		zap.String("encoding", table.Encoding),
		zap.Int("rows_loaded", cleanup.RowsLoaded),
		zap.Int("rows_after_name_cleanup", cleanup.RowsAfterNameCleanup),
		zap.Int("dropped_no_name", cleanup.DroppedNoName),
	)

	eligible, eligibility := engine.FilterEligible(records, mapping)
	res.Eligibility = eligibility
	for _, step := range eligibility.Steps {
		if step.Skipped {
			log.Warn("eligibility step skipped", zap.String("step", step.Step), zap.Any("missing_fields", step.MissingFields))
			continue
		}
		log.Info("eligibility step applied", zap.String("step", step.Step), zap.Int("before", step.Before), zap.Int("removed", step.Removed))
	}
	for _, nm := range eligibility.NearMissMajors {
		log.Warn("major removed but close to an IT major",
			zap.String("major", nm.Major),
			zap.String("closest", nm.Closest),
			zap.Float64("score", nm.Score),
			zap.Int("count", nm.Count),
		)
	}
	log.Info("eligibility filter done", zap.Int("initial", eligibility.Initial), zap.Int("final", eligibility.Final))

	classifier := &engine.Classifier{Now: func() time.Time { return now }, Workers: a.cfg.Engine.Workers}
	classified, classification, err := classifier.ClassifyAll(ctx, eligible)
	if err != nil {
		return nil, err
	}
	res.Classification = classification
	log.Info("classification done",
		zap.Int("classified", classification.Classified),
		zap.Int("dropped_unknown_status", classification.DroppedUnknown),
		zap.Strings("unknown_status_values", classification.UnknownStatusValues()),
		zap.Int("duration_from_years_of_service", classification.FromYears),
	)

	if violations := engine.CheckConsistency(classified); len(violations) > 0 {
		for _, v := range violations {
			log.Error("inconsistent classification", zap.Int("row", v.Row), zap.String("progression", v.Progression), zap.String("reason", v.Reason))
		}
		return nil, fmt.Errorf("consistency check failed: %d violations", len(violations))
	}

	res.Population = engine.BuildPopulation(classified)
	res.Summary = report.Summarize(res.Population, now)
	res.Summary.RunID = res.RunID
	log.Info("key statistics",
		zap.Int("total_analysed", res.Summary.TotalAnalysed),
		zap.Float64("probation_pass_rate", res.Summary.ProbationPassRate),
		zap.Float64("permanent_rate", res.Summary.PermanentRate),
		zap.Float64("turnover_rate", res.Summary.TurnoverRate),
		zap.Float64("average_duration_months", res.Summary.Duration.Mean),
	)

	if len(a.cfg.Output.Formats) > 0 {
		exported, err := report.Export(a.cfg.Output.Dir, a.cfg.Output.Formats, res.Population, res.Summary)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		res.Exported = exported
		log.Info("exports written", zap.Strings("files", exported))
	}

	return res, nil
}
