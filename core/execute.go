package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
)

// ExecutorFunc defines the function signature for executing different analysis views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// writerFunc renders one view of an analysis.
type writerFunc func(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error

// execute runs the pipeline on the configured input and hands the result to write.
func execute(ctx context.Context, cfg *contract.Config, write writerFunc) error {
	start := time.Now()
	result, err := RunAnalysis(ctx, cfg)
	if err != nil {
		return err
	}
	return write(result, cfg, time.Since(start))
}

// ExecuteStats prints commit totals.
// It serves as the main entry point for the 'stats' command.
func ExecuteStats(ctx context.Context, cfg *contract.Config) error {
	return execute(ctx, cfg, outwriter.WriteStats)
}

// ExecuteSessions prints the detected work sessions and their summary.
func ExecuteSessions(ctx context.Context, cfg *contract.Config) error {
	return execute(ctx, cfg, outwriter.WriteSessions)
}

// ExecuteContributors prints contributor profiles.
func ExecuteContributors(ctx context.Context, cfg *contract.Config) error {
	return execute(ctx, cfg, outwriter.WriteContributors)
}

// ExecuteCollaboration prints the collaboration pairs and shared files.
func ExecuteCollaboration(ctx context.Context, cfg *contract.Config) error {
	return execute(ctx, cfg, outwriter.WriteCollaboration)
}

// ExecuteEvolution prints file hotspots and the project timeline.
func ExecuteEvolution(ctx context.Context, cfg *contract.Config) error {
	return execute(ctx, cfg, outwriter.WriteEvolution)
}

// ExecuteTiming prints when commits happen.
func ExecuteTiming(ctx context.Context, cfg *contract.Config) error {
	return execute(ctx, cfg, outwriter.WriteTiming)
}

// ExecuteReport prints every view in one document.
func ExecuteReport(ctx context.Context, cfg *contract.Config) error {
	return execute(ctx, cfg, outwriter.WriteReport)
}

// ExecuteScores prints the reports of the given engines.
func ExecuteScores(ctx context.Context, cfg *contract.Config, engines []schema.EngineName) error {
	for _, e := range engines {
		if _, ok := schema.ValidEngines[e]; !ok {
			return fmt.Errorf("invalid engine '%s'. must be scaling, debt, velocity, transition", e)
		}
	}
	return execute(ctx, cfg, func(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
		return outwriter.WriteScores(result, engines, cfg, duration)
	})
}

// ExecuteExport writes the analysis as parquet files into dir.
func ExecuteExport(ctx context.Context, cfg *contract.Config, dir string) error {
	return execute(ctx, cfg, func(result *schema.AnalysisResult, _ *contract.Config, duration time.Duration) error {
		files, err := parquet.WriteAnalysis(dir, result)
		if err != nil {
			return err
		}
		contract.Logger.WithField("dir", dir).Infof("Wrote %d parquet files in %v", len(files), duration)
		return nil
	})
}
