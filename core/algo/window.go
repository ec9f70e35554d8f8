package algo

import "github.com/huangsam/gitpulse/schema"

// Window widths used by the trend detectors.
const (
	VelocityWindow = 7 * MillisPerDay
	CouplingWindow = 30 * MillisPerDay
)

// Trend comparison sizes.
const (
	VelocityTrendSpan = 4
	CouplingTrendSpan = 3
)

// NeutralTrend is the trend reported when there is nothing to compare.
const NeutralTrend = 50.0

// Window is a fixed-duration slice of a sorted commit stream.
type Window struct {
	Start   int64
	End     int64
	Commits []schema.Commit
}

// Partition splits commits sorted by timestamp into consecutive windows of the
// given width, anchored at the first commit. Empty windows are kept.
func Partition(sorted []schema.Commit, width int64) []Window {
	if len(sorted) == 0 || width <= 0 {
		return nil
	}
	first := sorted[0].Timestamp
	last := sorted[len(sorted)-1].Timestamp

	var windows []Window
	idx := 0
	for start := first; start <= last; start += width {
		end := start + width
		begin := idx
		for idx < len(sorted) && sorted[idx].Timestamp < end {
			idx++
		}
		windows = append(windows, Window{Start: start, End: end, Commits: sorted[begin:idx]})
	}
	return windows
}

// NonEmpty drops windows without commits.
func NonEmpty(windows []Window) []Window {
	out := make([]Window, 0, len(windows))
	for _, w := range windows {
		if len(w.Commits) > 0 {
			out = append(out, w)
		}
	}
	return out
}

// RecentVsEarlier returns the mean of the last k values and the mean of the k
// values before them. ok is false when either set is empty.
func RecentVsEarlier(values []float64, k int) (recent, earlier float64, ok bool) {
	if k <= 0 || len(values) == 0 {
		return 0, 0, false
	}
	split := max(0, len(values)-k)
	recentSet := values[split:]
	earlierSet := values[max(0, split-k):split]
	recent = Mean(recentSet)
	earlier = Mean(earlierSet)
	return recent, earlier, len(recentSet) > 0 && len(earlierSet) > 0
}

// VelocityTrend compares recent commit counts against earlier ones and maps
// the ratio onto [0, 100], where 50 means unchanged.
func VelocityTrend(counts []float64) float64 {
	if len(counts) < 3 {
		return NeutralTrend
	}
	recent, earlier, ok := RecentVsEarlier(counts, VelocityTrendSpan)
	if !ok || earlier == 0 {
		return NeutralTrend
	}
	return Clamp(recent / earlier * 50)
}

// TrendDelta returns recent minus earlier means, or 0 when either set is empty.
func TrendDelta(values []float64, k int) float64 {
	recent, earlier, ok := RecentVsEarlier(values, k)
	if !ok {
		return 0
	}
	return recent - earlier
}

// TrendLabel turns a delta into increasing, decreasing or stable.
func TrendLabel(delta, tolerance float64) string {
	switch {
	case delta > tolerance:
		return "increasing"
	case delta < -tolerance:
		return "decreasing"
	default:
		return "stable"
	}
}
