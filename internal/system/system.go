// Package system sizes the export worker pool against the host.
package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// memoryShare is the part of available memory the export canvases may use.
const memoryShare = 4

// Host describes the resources a parallel export can count on.
type Host struct {
	CPUs           int
	AvailableBytes uint64
}

// Probe queries the host. Failures fall back to runtime.NumCPU and an
// unknown (zero) memory size.
func Probe() Host {
	h := Host{CPUs: runtime.NumCPU()}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		h.CPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.AvailableBytes = vm.Available
	}
	return h
}

// MaxWorkers caps requested by the CPU count and by how many canvases of
// frameBytes fit in a quarter of the available memory. A requested value of
// zero or less means "as many as the host allows". The result is at least 1.
func (h Host) MaxWorkers(requested int, frameBytes uint64) int {
	n := h.CPUs
	if requested > 0 && requested < n {
		n = requested
	}
	if h.AvailableBytes > 0 && frameBytes > 0 {
		// every worker holds a canvas plus its encoded copy
		fit := h.AvailableBytes / memoryShare / (frameBytes * 2)
		if uint64(n) > fit {
			n = int(fit)
		}
	}
	return max(n, 1)
}
