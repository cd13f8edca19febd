package memory

import (
	"io"
	"math"
	"runtime/debug"
	"testing"

	"video-player/internal/logging"

	"github.com/stretchr/testify/assert"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

// keepLimit restores the runtime memory limit after the test.
func keepLimit(t *testing.T) {
	t.Helper()
	logging.SetOutput(io.Discard)
	old := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(old) })
}

func TestConfigureLimit(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		source    string
		container int64
		bytes     int64
		ratio     float64
	}{
		{
			name:   "nothing set",
			env:    nil,
			source: "none",
		},
		{
			name:      "container limit with default ratio",
			env:       map[string]string{"MEMORY_LIMIT": "1000000000"},
			source:    "MEMORY_LIMIT",
			container: 1000000000,
			bytes:     900000000,
			ratio:     DefaultRatio,
		},
		{
			name:      "custom ratio",
			env:       map[string]string{"MEMORY_LIMIT": "1000000000", "MEMORY_RATIO": "0.5"},
			source:    "MEMORY_LIMIT",
			container: 1000000000,
			bytes:     500000000,
			ratio:     0.5,
		},
		{
			name:      "ratio out of range falls back",
			env:       map[string]string{"MEMORY_LIMIT": "1000000000", "MEMORY_RATIO": "1.5"},
			source:    "MEMORY_LIMIT",
			container: 1000000000,
			bytes:     900000000,
			ratio:     DefaultRatio,
		},
		{
			name:      "unparsable ratio falls back",
			env:       map[string]string{"MEMORY_LIMIT": "1000000000", "MEMORY_RATIO": "half"},
			source:    "MEMORY_LIMIT",
			container: 1000000000,
			bytes:     900000000,
			ratio:     DefaultRatio,
		},
		{
			name:   "invalid container limit",
			env:    map[string]string{"MEMORY_LIMIT": "1Gi"},
			source: "none",
		},
		{
			name:   "negative container limit",
			env:    map[string]string{"MEMORY_LIMIT": "-5"},
			source: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keepLimit(t)

			got := ConfigureLimit(envMap(tt.env))
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.container, got.Container)
			assert.Equal(t, tt.bytes, got.Bytes)
			assert.InDelta(t, tt.ratio, got.Ratio, 1e-9)
			if tt.bytes > 0 {
				assert.Equal(t, tt.bytes, debug.SetMemoryLimit(-1))
			}
		})
	}
}

func TestConfigureLimitExplicitGOMEMLIMIT(t *testing.T) {
	keepLimit(t)
	debug.SetMemoryLimit(256 << 20)

	got := ConfigureLimit(envMap(map[string]string{
		"GOMEMLIMIT":   "256MiB",
		"MEMORY_LIMIT": "1000000000",
	}))
	assert.Equal(t, "GOMEMLIMIT", got.Source)
	assert.Equal(t, int64(256<<20), got.Bytes)
	assert.Equal(t, int64(256<<20), debug.SetMemoryLimit(-1), "an explicit limit is not overridden")
}

func TestReadUsage(t *testing.T) {
	keepLimit(t)

	debug.SetMemoryLimit(math.MaxInt64)
	u := ReadUsage()
	assert.Positive(t, u.HeapAlloc)
	assert.Positive(t, u.Sys)
	assert.Zero(t, u.Limit, "no limit reads as zero")

	debug.SetMemoryLimit(512 << 20)
	assert.Equal(t, int64(512<<20), ReadUsage().Limit)
}
