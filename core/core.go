// Package core runs the analysis pipeline: parse, then the per-commit
// analytics in parallel, then the metric engines in parallel.
package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/gitpulse/core/algo"
	"github.com/huangsam/gitpulse/core/classify"
	"github.com/huangsam/gitpulse/core/contrib"
	"github.com/huangsam/gitpulse/core/engine"
	"github.com/huangsam/gitpulse/core/evolution"
	"github.com/huangsam/gitpulse/core/parser"
	"github.com/huangsam/gitpulse/core/session"
	"github.com/huangsam/gitpulse/core/timing"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options control one pipeline run.
type Options struct {
	Now        time.Time
	SessionGap time.Duration
	Workers    int
	Classifier *classify.Classifier
	Weights    map[schema.EngineName]algo.Weights
}

// OptionsFromConfig reads the clock once and copies the analysis settings.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		Now:        cfg.Now(),
		SessionGap: cfg.SessionGap,
		Workers:    cfg.Workers,
		Classifier: cfg.Classifier,
		Weights:    cfg.Weights,
	}
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return contract.DefaultWorkers
	}
	return o.Workers
}

func (o Options) engineOptions() engine.Options {
	return engine.Options{Now: o.Now, Classifier: o.Classifier, Weights: o.Weights}
}

// Analyze parses a transcript and runs every analysis over it.
func Analyze(ctx context.Context, text string, opts Options) (*schema.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AnalyzeParsed(ctx, parser.Parse(text), opts)
}

// AnalyzeReader is Analyze over a stream.
func AnalyzeReader(ctx context.Context, r io.Reader, opts Options) (*schema.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parsed, err := parser.ParseReader(r)
	if err != nil {
		return nil, err
	}
	return AnalyzeParsed(ctx, parsed, opts)
}

// AnalyzeParsed runs the analytics over an already parsed log.
// Stages only read the commits and each writes its own result field.
func AnalyzeParsed(ctx context.Context, parsed schema.ParseResult, opts Options) (*schema.AnalysisResult, error) {
	logDropped(parsed)

	result := &schema.AnalysisResult{
		AsOf:     opts.Now,
		Dropped:  parsed.DroppedCount,
		Warnings: parsed.Warnings,
		Commits:  parsed.Commits,
	}
	commits := parsed.Commits

	err := runStage(ctx, opts.workers(),
		func() { result.Summary = parser.CommitStats(commits) },
		func() {
			result.Sessions = session.Detect(commits, opts.SessionGap)
			result.SessionSummary = session.Stats(result.Sessions)
		},
		func() { result.Contributors = contrib.Profile(commits) },
		func() { result.Collaboration = contrib.Collaborate(commits) },
		func() { result.Evolution = evolution.Track(commits) },
		func() { result.Timing = timing.Analyze(commits) },
	)
	if err != nil {
		return nil, err
	}

	in := engine.Input{
		Commits:      commits,
		Sessions:     result.Sessions,
		Contributors: result.Contributors,
		Evolution:    result.Evolution,
	}
	eopts := opts.engineOptions()
	err = runStage(ctx, opts.workers(),
		func() { result.ProjectMetrics = evolution.ProjectMetrics(commits, result.Sessions, result.Contributors, result.Evolution) },
		func() { result.Scaling = engine.ScoreScaling(in, eopts) },
		func() { result.Debt = engine.ScoreDebt(in, eopts) },
		func() { result.Velocity = engine.ScoreVelocity(in, eopts) },
		func() { result.Transition = engine.ScoreTransition(in, eopts) },
	)
	if err != nil {
		return nil, err
	}

	contract.Logger.WithFields(logrus.Fields{
		"commits":  len(commits),
		"dropped":  parsed.DroppedCount,
		"sessions": len(result.Sessions),
		"files":    result.Evolution.TotalFilesEverTouched,
	}).Debug("analysis complete")
	return result, nil
}

// logDropped records every commit block the parser discarded.
func logDropped(parsed schema.ParseResult) {
	if parsed.DroppedCount == 0 {
		return
	}
	for _, w := range parsed.Warnings {
		contract.Logger.WithFields(logrus.Fields{
			"line": w.Line,
			"hash": w.Hash,
		}).Debug("dropped commit: " + w.Reason)
	}
}

// runStage runs independent tasks with at most workers in flight. Tasks not
// yet started are skipped once ctx is done.
func runStage(ctx context.Context, workers int, tasks ...func()) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			task()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}
	return nil
}
