package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	for _, engine := range AllEngines {
		t.Run(string(engine), func(t *testing.T) {
			weights := GetDefaultWeights(engine)
			assert.Len(t, weights, len(SubScoreKeys(engine)))

			sum := 0.0
			for _, key := range SubScoreKeys(engine) {
				w, ok := weights[key]
				assert.True(t, ok, "missing weight for %s", key)
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestGetDefaultWeightsUnknown(t *testing.T) {
	assert.Nil(t, GetDefaultWeights("nope"))
	assert.Nil(t, SubScoreKeys("nope"))
}

func TestCommitTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	c := Commit{Timestamp: ts.UnixMilli(), TZOffset: 2 * 3600}

	local := c.Time()
	assert.Equal(t, 1, local.Hour())
	assert.Equal(t, 2, local.Day())
	assert.True(t, local.Equal(ts))
}

func TestAnalysisResultReport(t *testing.T) {
	r := &AnalysisResult{}
	r.Debt.Composite = 42

	report, ok := r.Report(DebtEngine)
	assert.True(t, ok)
	assert.Equal(t, 42.0, report.Composite)

	_, ok = r.Report("unknown")
	assert.False(t, ok)
	assert.Nil(t, r.EngineReport("unknown"))
}
