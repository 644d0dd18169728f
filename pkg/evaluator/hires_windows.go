//go:build windows

package evaluator

import (
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// The default Windows timer ticks at ~15ms, too coarse for millisecond
// budgets, so the performance counter is read directly.
var (
	kernel32DLL = windows.NewLazySystemDLL("kernel32.dll")
	qpcProc     = kernel32DLL.NewProc("QueryPerformanceCounter")
	qpfProc     = kernel32DLL.NewProc("QueryPerformanceFrequency")
	qpcFreq     int64
)

func init() {
	qpfProc.Call(uintptr(unsafe.Pointer(&qpcFreq)))
}

// clockNow returns a performance counter reading.
func clockNow() int64 {
	var count int64
	qpcProc.Call(uintptr(unsafe.Pointer(&count)))
	return count
}

// clockSince returns the time elapsed since a clockNow reading.
func clockSince(start int64) time.Duration {
	ticks := clockNow() - start
	return time.Duration(float64(ticks) / float64(qpcFreq) * float64(time.Second))
}
