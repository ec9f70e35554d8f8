// Package outwriter renders analysis results as tables, JSON or CSV.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// Colors for headings in terminal output.
var (
	ColorPrimary = lipgloss.Color("#64b5f6")
	ColorMuted   = lipgloss.Color("#888888")
)

// Styles for headings in terminal output.
var (
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// section is one titled table of a view. CSV output carries only the first section.
type section struct {
	title  string
	header []string
	rows   [][]string
	notes  []string // Printed below the table in text mode
}

// view is everything one command prints.
type view struct {
	kind     string // Used in the "Wrote ..." message
	json     any
	sections []section
	footer   string
}

// render writes v to w in the configured output mode.
func render(w io.Writer, v view, cfg *contract.Config, colored bool) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, v.json)
	case schema.CSVOut:
		return renderCSV(w, v)
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available through the export command")
	default:
		return renderText(w, v, colored)
	}
}

// emit renders v to the configured destination.
func emit(v view, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return render(io.Discard, v, cfg, false)
	}
	colored := useColors(cfg)
	kind := strings.ToUpper(string(cfg.Output))
	if cfg.Output == schema.TextOut || cfg.Output == "" {
		kind = "table"
	}
	if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return render(w, v, cfg, colored)
	}, fmt.Sprintf("Wrote %s %s", v.kind, kind)); err != nil {
		return fmt.Errorf("error writing %s output: %w", v.kind, err)
	}
	return nil
}

func renderCSV(w io.Writer, v view) error {
	if len(v.sections) == 0 {
		return nil
	}
	first := v.sections[0]
	return writeCSVWithHeader(w, first.header, func(cw *csv.Writer) error {
		return cw.WriteAll(first.rows)
	})
}

func renderText(w io.Writer, v view, colored bool) error {
	for i, s := range v.sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, heading(s.title, colored)); err != nil {
			return err
		}
		if err := writeTable(w, s); err != nil {
			return err
		}
		for _, note := range s.notes {
			if _, err := fmt.Fprintln(w, note); err != nil {
				return err
			}
		}
	}
	if v.footer != "" {
		footer := v.footer
		if colored {
			footer = StyleMuted.Render(footer)
		}
		if _, err := fmt.Fprintln(w, footer); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, s section) error {
	if len(s.header) == 0 {
		return nil
	}
	if len(s.rows) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header(s.header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(s.rows); err != nil {
		return err
	}
	return table.Render()
}

func heading(title string, colored bool) string {
	if colored {
		return StyleHeader.Render(title)
	}
	return title + "\n" + strings.Repeat("=", len([]rune(title)))
}

// useColors reports whether labels and headings may carry ANSI colors.
func useColors(cfg *contract.Config) bool {
	if !cfg.UseColors || cfg.OutputFile != "" {
		return false
	}
	if cfg.Output != schema.TextOut && cfg.Output != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// labeler returns the label function matching the color mode.
func labeler(colored bool) func(float64) string {
	if colored {
		return contract.GetColorLabel
	}
	return contract.GetPlainLabel
}

// footerLine describes how the run went.
func footerLine(cfg *contract.Config, duration time.Duration) string {
	return fmt.Sprintf("Analysis completed in %v with %d workers.", duration.Round(time.Millisecond), cfg.Workers)
}

// GetMaxTablePathWidth returns the widest file path a table can show without wrapping.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns plus borders and padding
	available := termWidth - 45
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}

// formatDate formats an epoch millisecond timestamp.
func formatDate(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return schema.MillisToTime(ms).Format(contract.DateTimeFormat)
}

// limit caps n at the configured result limit.
func limit(n int, cfg *contract.Config) int {
	if cfg.ResultLimit > 0 && n > cfg.ResultLimit {
		return cfg.ResultLimit
	}
	return n
}
