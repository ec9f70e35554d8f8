// Package main provides a performance benchmarking tool for the gitpulse CLI.
// It captures `git log --stat` once per repository, then times each analysis
// command against that transcript with a single worker and with the default
// worker count, treating the first successful run as cold and averaging the rest.
// Results are written as CSV for performance analysis and documentation.
//
// Prerequisites:
// - gitpulse binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one command on one repository.
type BenchmarkResult struct {
	Repository string
	Command    string
	Commits    int
	SerialTime string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase   string
	Timeout    time.Duration
	Workers    int
	SerialRuns int
	Runs       int
	TestRepos  []string
	Commands   [][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:   os.Args[1],
		Timeout:    5 * time.Minute,
		Workers:    runtime.NumCPU(),
		SerialRuns: 3,
		Runs:       4,
		TestRepos:  []string{"csv-parser", "fd", "git", "kubernetes"},
		Commands: [][]string{
			{"stats"},
			{"sessions"},
			{"contributors"},
			{"evolution"},
			{"score", "all"},
			{"report"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the gitpulse binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("gitpulse"); err != nil {
		return fmt.Errorf("gitpulse binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// captureLog writes the repository history to a temp file and counts its commits.
func captureLog(repoPath string) (string, int, error) {
	logCmd := exec.Command("git", "log", "--stat", "--no-merges")
	logCmd.Dir = repoPath
	out, err := logCmd.Output()
	if err != nil {
		return "", 0, fmt.Errorf("git log failed in %s: %w", repoPath, err)
	}

	f, err := os.CreateTemp("", "gitpulse-bench-*.log")
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(out); err != nil {
		return "", 0, err
	}

	commits := 0
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "commit ") {
			commits++
		}
	}
	return f.Name(), commits, nil
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, serial: %d runs, parallel: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.SerialRuns, config.Runs)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		logPath, commits, err := captureLog(filepath.Join(config.RepoBase, repo))
		if err != nil {
			return nil, err
		}
		fmt.Printf("  Captured %d commits\n", commits)

		for _, command := range config.Commands {
			result := runBenchmarkSuite(config, repo, logPath, command)
			result.Commits = commits
			results = append(results, result)
		}
		_ = os.Remove(logPath)
	}
	return results, nil
}

// runBenchmarkSuite runs the serial and parallel phases for one command
func runBenchmarkSuite(config BenchmarkConfig, repo, logPath string, command []string) BenchmarkResult {
	name := strings.Join(command, " ")
	fmt.Printf("Running %s on %s\n", name, repo)

	serialTimes := runBenchmark(config, logPath, command, 1, config.SerialRuns)
	serialAvg := average(serialTimes)

	times := runBenchmark(config, logPath, command, config.Workers, config.Runs)
	coldTime, warmAvg := "TIMEOUT", "TIMEOUT"
	if len(times) > 0 {
		coldTime = fmt.Sprintf("%.3fs", times[0])
		warmAvg = average(times[1:])
	}

	fmt.Printf("  Serial average: %s, Cold time: %s, Warm average: %s\n", serialAvg, coldTime, warmAvg)

	return BenchmarkResult{
		Repository: repo,
		Command:    name,
		SerialTime: serialAvg,
		ColdTime:   coldTime,
		WarmTime:   warmAvg,
	}
}

// runBenchmark times a gitpulse command numRuns times and returns the successful durations
func runBenchmark(config BenchmarkConfig, logPath string, command []string, workers, numRuns int) []float64 {
	args := append([]string{}, command...)
	args = append(args, logPath,
		"--workers", strconv.Itoa(workers),
		"--progress-backend", "none",
		"--output-file", os.DevNull,
	)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "gitpulse", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}
	return times
}

// isSuccess checks that gitpulse reported writing its output
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Wrote ")
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("gitpulse_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "cmd", "commits", "serial_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		record := []string{r.Repository, r.Command, strconv.Itoa(r.Commits), r.SerialTime, r.ColdTime, r.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results, grouped by command
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		name := strings.Join(command, " ")
		fmt.Printf("%s:\n", name)
		for _, r := range results {
			if r.Command == name {
				fmt.Printf("  %-12s (%d commits): Serial: %s, Cold: %s, Warm: %s\n",
					r.Repository, r.Commits, r.SerialTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
