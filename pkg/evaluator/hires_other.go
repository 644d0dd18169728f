//go:build !windows

package evaluator

import "time"

var clockEpoch = time.Now()

// clockNow returns a monotonic timestamp in nanoseconds.
func clockNow() int64 {
	return int64(time.Since(clockEpoch))
}

// clockSince returns the time elapsed since a clockNow timestamp.
func clockSince(start int64) time.Duration {
	return time.Duration(clockNow() - start)
}
