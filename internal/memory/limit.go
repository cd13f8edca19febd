package memory

import (
	"math"
	"runtime"
	"runtime/debug"
	"strconv"

	"video-player/internal/logging"
	"video-player/internal/mediatypes"
)

// DefaultRatio is the share of the container limit given to the Go heap.
const DefaultRatio = 0.9

// Limit describes the soft memory limit in effect after ConfigureLimit.
type Limit struct {
	// Source is "GOMEMLIMIT", "MEMORY_LIMIT" or "none".
	Source string
	// Container is the MEMORY_LIMIT value in bytes, or 0.
	Container int64
	// Bytes is the limit applied to the runtime, or 0 if none.
	Bytes int64
	Ratio float64
}

// ConfigureLimit sets the runtime soft memory limit from the environment.
// An explicit GOMEMLIMIT is left to the runtime. Otherwise MEMORY_LIMIT, a
// container limit in bytes as exposed by the Kubernetes Downward API, is
// scaled by MEMORY_RATIO (default DefaultRatio). Call it first in main.
func ConfigureLimit(getenv func(string) string) Limit {
	if v := getenv("GOMEMLIMIT"); v != "" {
		limit := Limit{Source: "GOMEMLIMIT"}
		if current := debug.SetMemoryLimit(-1); current > 0 && current < math.MaxInt64 {
			limit.Bytes = current
		}
		logging.Info("Memory limit from GOMEMLIMIT: %s", v)
		return limit
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, no soft memory limit applied")
		return Limit{Source: "none"}
	}
	container, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || container <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", raw)
		return Limit{Source: "none"}
	}

	ratio := DefaultRatio
	if v := getenv("MEMORY_RATIO"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			logging.Warn("Ignoring invalid MEMORY_RATIO %q, using %.2f", v, DefaultRatio)
		} else {
			ratio = parsed
		}
	}

	bytes := int64(float64(container) * ratio)
	debug.SetMemoryLimit(bytes)
	logging.Info("Memory limit set to %s (%.0f%% of %s)",
		mediatypes.FormatSize(uint64(bytes)), ratio*100, mediatypes.FormatSize(uint64(container)))

	return Limit{Source: "MEMORY_LIMIT", Container: container, Bytes: bytes, Ratio: ratio}
}

// Usage is a point-in-time view of the process memory.
type Usage struct {
	HeapAlloc uint64 `json:"heapAlloc"`
	Sys       uint64 `json:"sys"`
	NumGC     uint32 `json:"numGc"`
	// Limit is the soft memory limit, or 0 when unlimited.
	Limit int64 `json:"limit"`
}

// ReadUsage samples the runtime memory statistics.
func ReadUsage() Usage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	u := Usage{HeapAlloc: m.HeapAlloc, Sys: m.Sys, NumGC: m.NumGC}
	if limit := debug.SetMemoryLimit(-1); limit < math.MaxInt64 {
		u.Limit = limit
	}
	return u
}
