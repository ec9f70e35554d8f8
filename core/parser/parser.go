// Package parser turns a rendered `git log --stat` transcript into commit records.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// MaxLineSize is the longest line ParseReader accepts.
const MaxLineSize = 1 << 20

// Reasons attached to dropped commit blocks.
const (
	ReasonMissingHash      = "missing hash"
	ReasonMissingAuthor    = "missing author"
	ReasonInvalidTimestamp = "invalid timestamp"
)

var (
	authorRe  = regexp.MustCompile(`^Author:\s*(.*?)\s*<([^>]*)>\s*$`)
	statRe    = regexp.MustCompile(`^(.+?)\s*\|\s*(\d+)\s*([+-]*)`)
	summaryRe = regexp.MustCompile(`^(\d+) files? changed(?:, (\d+) insertions?\(\+\))?(?:, (\d+) deletions?\(-\))?`)
)

// dateLayouts are tried in order against the value of a Date line.
var dateLayouts = []string{
	"Mon Jan 2 15:04:05 2006 -0700", // git default
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05",
}

// metadataPrefixes are header lines that never become the commit message.
var metadataPrefixes = []string{"Merge:", "AuthorDate:", "Commit:", "CommitDate:"}

// Parse parses a complete transcript. It never fails: malformed lines are
// skipped and incomplete commits are counted in the result.
func Parse(text string) schema.ParseResult {
	var acc accumulator
	for line := range strings.SplitSeq(text, "\n") {
		acc.feed(line)
	}
	return acc.finish()
}

// ParseReader parses a transcript from r. It only fails when r fails or a
// line exceeds MaxLineSize.
func ParseReader(r io.Reader) (schema.ParseResult, error) {
	var acc accumulator
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		acc.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return schema.ParseResult{}, fmt.Errorf("failed to read git log: %w", err)
	}
	return acc.finish(), nil
}

// pending is a commit block that has not been flushed yet.
type pending struct {
	commit  schema.Commit
	line    int
	hasTime bool
}

// accumulator holds the in-progress commit while lines stream in.
type accumulator struct {
	lineNo  int
	current *pending
	result  schema.ParseResult
}

func (a *accumulator) feed(raw string) {
	a.lineNo++
	line := strings.TrimSpace(raw)

	if line == "commit" || strings.HasPrefix(line, "commit ") {
		a.flush()
		a.current = &pending{line: a.lineNo}
		if fields := strings.Fields(line[len("commit"):]); len(fields) > 0 {
			a.current.commit.Hash = fields[0]
		}
		return
	}
	if a.current == nil || line == "" {
		return
	}
	c := &a.current.commit

	switch {
	case strings.HasPrefix(line, "Author:"):
		c.Author, c.Email = parseAuthor(line)
	case strings.HasPrefix(line, "Date:"):
		if t, ok := parseDate(strings.TrimSpace(line[len("Date:"):])); ok {
			_, offset := t.Zone()
			c.Timestamp = t.UnixMilli()
			c.TZOffset = offset
			a.current.hasTime = true
		} else {
			a.current.hasTime = false
		}
	case isMetadata(line):
		return
	case strings.Contains(line, "|") && strings.ContainsAny(line, "+-"):
		if fc, ok := parseFileStat(line); ok {
			c.Files = append(c.Files, fc)
			c.Insertions += fc.Additions
			c.Deletions += fc.Deletions
		}
	case summaryRe.MatchString(line):
		m := summaryRe.FindStringSubmatch(line)
		c.Insertions = atoi(m[2])
		c.Deletions = atoi(m[3])
	case c.Message == "":
		c.Message = line
	}
}

// flush moves the in-progress commit into the result, or records why it was dropped.
func (a *accumulator) flush() {
	p := a.current
	if p == nil {
		return
	}
	a.current = nil

	reason := ""
	switch {
	case p.commit.Hash == "":
		reason = ReasonMissingHash
	case p.commit.Author == "":
		reason = ReasonMissingAuthor
	case !p.hasTime:
		reason = ReasonInvalidTimestamp
	}
	if reason != "" {
		a.result.DroppedCount++
		a.result.Warnings = append(a.result.Warnings, schema.ParseWarning{
			Line:   p.line,
			Hash:   p.commit.Hash,
			Reason: reason,
		})
		return
	}
	a.result.Commits = append(a.result.Commits, p.commit)
}

func (a *accumulator) finish() schema.ParseResult {
	a.flush()
	if a.result.Commits == nil {
		a.result.Commits = []schema.Commit{}
	}
	if a.result.Warnings == nil {
		a.result.Warnings = []schema.ParseWarning{}
	}
	return a.result
}

// parseAuthor splits "Author: Name <email>". A line without an email keeps the name.
func parseAuthor(line string) (name, email string) {
	if m := authorRe.FindStringSubmatch(line); m != nil {
		return m[1], m[2]
	}
	return strings.TrimSpace(line[len("Author:"):]), ""
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseFileStat reads "<filename> | <count> <bar>". Additions and deletions
// are the number of '+' and '-' characters in the bar.
func parseFileStat(line string) (schema.FileChange, bool) {
	m := statRe.FindStringSubmatch(line)
	if m == nil {
		return schema.FileChange{}, false
	}
	return schema.FileChange{
		Filename:  strings.TrimSpace(m[1]),
		Changes:   atoi(m[2]),
		Additions: strings.Count(m[3], "+"),
		Deletions: strings.Count(m[3], "-"),
	}, true
}

func isMetadata(line string) bool {
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// atoi returns 0 for empty or invalid input.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
