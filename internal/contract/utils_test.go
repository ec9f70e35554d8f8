package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "smallest value possible",
			input:    0.0,
			expected: LowValue,
		},
		{
			name:     "just before moderate",
			input:    39.9,
			expected: LowValue,
		},
		{
			name:     "exactly moderate",
			input:    40.0,
			expected: ModerateValue,
		},
		{
			name:     "just before high",
			input:    59.9,
			expected: ModerateValue,
		},
		{
			name:     "exactly high",
			input:    60.0,
			expected: HighValue,
		},
		{
			name:     "just before critical",
			input:    79.9,
			expected: HighValue,
		},
		{
			name:     "exactly critical",
			input:    80.0,
			expected: CriticalValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		label string
	}{
		{"low", 30, LowValue},
		{"moderate", 50, ModerateValue},
		{"high", 70, HighValue},
		{"critical", 90, CriticalValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.score)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(os.TempDir(), "test_output.txt")
		defer func() { _ = os.Remove(tempFile) }() // cleanup

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetHealthLabel(t *testing.T) {
	assert.Equal(t, LowValue, GetHealthLabel(90))
	assert.Equal(t, ModerateValue, GetHealthLabel(55))
	assert.Equal(t, CriticalValue, GetHealthLabel(10))
}

func TestGetSeverityLabel(t *testing.T) {
	tests := map[schema.Severity]string{
		schema.SeverityCritical: CriticalValue,
		schema.SeverityHigh:     HighValue,
		schema.SeverityMedium:   ModerateValue,
		schema.SeverityLow:      LowValue,
	}
	for severity, label := range tests {
		assert.Contains(t, GetSeverityLabel(severity), label)
	}
}

func TestGetProgressDBFilePath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	bolt := GetProgressDBFilePath(schema.BoltBackend)
	assert.True(t, strings.HasPrefix(bolt, homeDir), "path %s should start with home dir %s", bolt, homeDir)
	assert.Equal(t, "progress.bolt", filepath.Base(bolt))
	assert.Equal(t, "progress.db", filepath.Base(GetProgressDBFilePath(schema.SQLiteBackend)))
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.go", TruncatePath("short.go", 20))
	assert.Equal(t, "...ep/file.go", TruncatePath("very/deep/file.go", 13))
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3), "too narrow to truncate")
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"No", false, false},
		{"false", false, false},
		{"0", false, false},
		{"", false, true},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := ParseBoolString(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
