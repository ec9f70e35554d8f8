package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// ProgressEntry is one stored progress key.
type ProgressEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// WriteProgressSummary prints how much of the guided material has been seen.
func WriteProgressSummary(summary schema.ProgressSummary, status schema.ProgressStatus, cfg *contract.Config) error {
	return emit(progressSummaryView(summary, status, cfg), cfg)
}

// WriteProgressEntries prints stored progress keys and their values.
func WriteProgressEntries(entries []ProgressEntry, cfg *contract.Config) error {
	return emit(progressEntriesView(entries), cfg)
}

// WriteSkills prints the skill registry index.
func WriteSkills(skills []schema.SkillEntry, cfg *contract.Config) error {
	return emit(skillsView(skills), cfg)
}

// WriteSkill prints one skill. Text mode prints the raw document.
func WriteSkill(skill schema.Skill, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return emit(view{kind: "skill", json: skill}, cfg)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := io.WriteString(w, skill.Content)
		return err
	}, "Wrote skill")
}

func progressSummaryView(summary schema.ProgressSummary, status schema.ProgressStatus, cfg *contract.Config) view {
	fmtFloat, fmtInt := createFormatters(cfg.Precision)
	lastEntry := "-"
	if !status.LastEntryTime.IsZero() {
		lastEntry = status.LastEntryTime.Format(contract.DateTimeFormat)
	}
	rows := [][]string{
		{"completed_chapters", fmt.Sprintf("%d/%d", len(summary.CompletedChapters), summary.TotalChapters)},
		{"explored_tools", fmt.Sprintf("%d/%d", len(summary.ExploredTools), summary.TotalTools)},
		{"percent_complete", fmtFloat(summary.PercentComplete)},
		{"backend", status.Backend},
		{"total_entries", fmtInt(status.TotalEntries)},
		{"last_entry", lastEntry},
	}
	var notes []string
	if len(summary.CompletedChapters) > 0 {
		notes = append(notes, "Chapters: "+strings.Join(summary.CompletedChapters, ", "))
	}
	if len(summary.ExploredTools) > 0 {
		notes = append(notes, "Tools: "+strings.Join(summary.ExploredTools, ", "))
	}
	return view{
		kind: "progress",
		json: struct {
			schema.ProgressSummary
			Status schema.ProgressStatus `json:"status"`
		}{summary, status},
		sections: []section{{
			title:  "Progress",
			header: []string{"metric", "value"},
			rows:   rows,
			notes:  notes,
		}},
	}
}

func progressEntriesView(entries []ProgressEntry) view {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Value})
	}
	if entries == nil {
		entries = []ProgressEntry{}
	}
	return view{
		kind:     "progress",
		json:     entries,
		sections: []section{{title: "Progress Entries", header: []string{"key", "value"}, rows: rows}},
	}
}

func skillsView(skills []schema.SkillEntry) view {
	rows := make([][]string, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, []string{s.ID, s.Name, s.Description, strings.Join(s.Tags, ",")})
	}
	if skills == nil {
		skills = []schema.SkillEntry{}
	}
	return view{
		kind:     "skills",
		json:     skills,
		sections: []section{{title: "Skills", header: []string{"id", "name", "description", "tags"}, rows: rows}},
	}
}
