package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// StdinPath selects standard input as the log source.
const StdinPath = "-"

// OpenInput opens a git log transcript. An empty path or "-" reads stdin.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" || path == StdinPath {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git log: %w", err)
	}
	return f, nil
}

// RunAnalysis reads the configured input and analyzes it.
func RunAnalysis(ctx context.Context, cfg *contract.Config) (*schema.AnalysisResult, error) {
	r, err := OpenInput(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return AnalyzeReader(ctx, r, OptionsFromConfig(cfg))
}
