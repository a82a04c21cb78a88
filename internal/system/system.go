package system

import (
	"fmt"
	"os"
	"runtime"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// InitResourceLimits raises the open file limit for the HTTP server.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		logrus.WithError(err).Warn("could not read open file limit")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logrus.WithError(err).Warn("could not raise open file limit")
		return
	}
	logrus.WithField("limit", rLimit.Cur).Debug("open file limit raised")
}

// HostStats is a snapshot of memory use around a render.
type HostStats struct {
	TotalMemory     uint64
	AvailableMemory uint64
	UsedPercent     float64
	ProcessRSS      uint64
	Goroutines      int
}

// ReadHostStats samples system memory and the resident size of this process.
func ReadHostStats() (HostStats, error) {
	var hs HostStats
	vm, err := mem.VirtualMemory()
	if err != nil {
		return hs, fmt.Errorf("reading memory stats: %w", err)
	}
	hs.TotalMemory = vm.Total
	hs.AvailableMemory = vm.Available
	hs.UsedPercent = vm.UsedPercent

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return hs, fmt.Errorf("opening process: %w", err)
	}
	mi, err := proc.MemoryInfo()
	if err != nil {
		return hs, fmt.Errorf("reading process memory: %w", err)
	}
	hs.ProcessRSS = mi.RSS
	hs.Goroutines = runtime.NumGoroutine()
	return hs, nil
}

func (h HostStats) String() string {
	return fmt.Sprintf("rss %s, host %s free of %s (%.1f%% used), %d goroutines",
		humanize.Bytes(h.ProcessRSS),
		humanize.Bytes(h.AvailableMemory),
		humanize.Bytes(h.TotalMemory),
		h.UsedPercent,
		h.Goroutines)
}

// EnsureDirs creates each directory if it does not exist.
func EnsureDirs(dirs ...string) error {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
	}
	return nil
}
