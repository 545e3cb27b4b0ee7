package sheetio

import (
	"fmt"
	"math"
	"runtime"
)

const (
	// defaultMemoryLimitMB applies when a non-positive limit is requested
	defaultMemoryLimitMB = 512
	// maxMemoryLimitMB caps requested limits at 64GB
	maxMemoryLimitMB = 64 * 1024
	// defaultWarningRatio is the share of the limit that triggers a collection
	defaultWarningRatio = 0.8

	bytesPerMB = 1 << 20
)

// MemoryStatus classifies heap usage against a MemoryLimit
type MemoryStatus int

const (
	// MemoryStatusOK is below the warning ratio
	MemoryStatusOK MemoryStatus = iota
	// MemoryStatusWarning is at or above the warning ratio
	MemoryStatusWarning
	// MemoryStatusExceeded is at or above the limit
	MemoryStatusExceeded
)

// String returns string representation of memory status
func (ms MemoryStatus) String() string {
	switch ms {
	case MemoryStatusOK:
		return "OK"
	case MemoryStatusWarning:
		return "WARNING"
	case MemoryStatusExceeded:
		return "EXCEEDED"
	default:
		return "UNKNOWN"
	}
}

// MemoryLimit is a heap ceiling checked between the passes of a windowed
// read. ReadMemStats briefly stops the world, so it is sampled once per
// window and never per row.
//
//	limit := NewMemoryLimit(256)
//	if err := limit.Guard("windowed read"); err != nil {
//		return err // wraps ErrMemoryLimit
//	}
//
// A MemoryLimit is immutable after construction and safe for concurrent use.
type MemoryLimit struct {
	limitMB int64
	warnAt  float64
	heapMB  func() int64
}

// NewMemoryLimit creates a limit of limitMB megabytes. Non-positive values
// select 512MB and values above 64GB are capped.
func NewMemoryLimit(limitMB int64) *MemoryLimit {
	switch {
	case limitMB <= 0:
		limitMB = defaultMemoryLimitMB
	case limitMB > maxMemoryLimitMB:
		limitMB = maxMemoryLimitMB
	}
	return &MemoryLimit{
		limitMB: limitMB,
		warnAt:  defaultWarningRatio,
		heapMB:  heapAllocMB,
	}
}

// LimitMB returns the ceiling in megabytes.
func (ml *MemoryLimit) LimitMB() int64 {
	return ml.limitMB
}

// WithWarningRatio returns a copy that warns at ratio of the limit.
// Ratios outside (0, 1] are ignored.
func (ml *MemoryLimit) WithWarningRatio(ratio float64) *MemoryLimit {
	cp := *ml
	if ratio > 0 && ratio <= 1 {
		cp.warnAt = ratio
	}
	return &cp
}

// Check samples the heap and classifies it.
func (ml *MemoryLimit) Check() (MemoryStatus, int64) {
	current := ml.heapMB()
	return ml.classify(current), current
}

func (ml *MemoryLimit) classify(currentMB int64) MemoryStatus {
	switch {
	case currentMB >= ml.limitMB:
		return MemoryStatusExceeded
	case float64(currentMB) >= float64(ml.limitMB)*ml.warnAt:
		return MemoryStatusWarning
	default:
		return MemoryStatusOK
	}
}

// Guard returns an error wrapping ErrMemoryLimit once the heap reaches the
// limit. In the warning band it forces a collection and samples again.
func (ml *MemoryLimit) Guard(operation string) error {
	status, current := ml.Check()
	if status == MemoryStatusWarning {
		runtime.GC()
		status, current = ml.Check()
	}
	if status != MemoryStatusExceeded {
		return nil
	}
	return fmt.Errorf("%w during %s: heap %d MB of %d MB, reduce the chunk size or raise the limit",
		ErrMemoryLimit, operation, current, ml.limitMB)
}

// heapAllocMB returns the live heap in MB
func heapAllocMB() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	mb := ms.HeapAlloc / bytesPerMB
	if mb > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(mb)
}
