// Package sysinfo reports GPU and system memory usage and probes hardware
// capabilities relevant to training.
package sysinfo

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/mem"
)

// ErrNoGPUText is returned in place of a memory report when the GPU probe
// fails, matching what operators without an NVIDIA card should see.
const ErrNoGPUText = "Error parsing memory stats. Do you have a NVIDIA GPU?"

// GPUMemory holds one nvidia-smi memory sample in GiB.
type GPUMemory struct {
	UsedGB  float64
	TotalGB float64
}

// queryGPUFunc fetches the current GPU memory sample. Replaceable in tests.
type queryGPUFunc func() (GPUMemory, error)

// Monitor samples memory usage at labelled points during training and keeps
// the records until the next reset, so a report can show where memory went.
type Monitor struct {
	mu       sync.Mutex
	records  map[string]string
	peakGB   float64
	queryGPU queryGPUFunc
}

// NewMonitor creates a Monitor backed by nvidia-smi.
func NewMonitor() *Monitor {
	return &Monitor{
		records:  make(map[string]string),
		queryGPU: queryNvidiaSMI,
	}
}

// NewMonitorWithQuery creates a Monitor with a custom GPU probe, for tests
// and non-nvidia-smi memory sources.
func NewMonitorWithQuery(q func() (GPUMemory, error)) *Monitor {
	return &Monitor{records: make(map[string]string), queryGPU: q}
}

// Note samples GPU memory, records it under label, and returns a short
// report line. On probe failure it returns ErrNoGPUText.
func (m *Monitor) Note(label string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	gpu, err := m.queryGPU()
	if err != nil {
		return ErrNoGPUText
	}
	if gpu.UsedGB > m.peakGB {
		m.peakGB = gpu.UsedGB
	}

	m.records[label] = fmt.Sprintf("%.1f/%.1fGB", gpu.UsedGB, gpu.TotalGB)
	return fmt.Sprintf(" %s \n Allocated: %.1fGB \n Total: %.1fGB \n", label, gpu.UsedGB, gpu.TotalGB)
}

// Report renders current and peak usage without touching the records or
// the peak tracker, so pollers can read it as often as they like.
func (m *Monitor) Report() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := m.reportLocked()
	if err != nil {
		return ErrNoGPUText
	}
	return out
}

// Reset renders current and peak usage, then clears all records and the
// peak tracker. Used at the end of a training run.
func (m *Monitor) Reset() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := m.reportLocked()
	m.records = make(map[string]string)
	m.peakGB = 0
	if err != nil {
		return ErrNoGPUText
	}
	return out
}

// reportLocked samples the GPU, folds the sample into the peak, and renders
// the usage line. Caller holds the mutex.
func (m *Monitor) reportLocked() (string, error) {
	gpu, err := m.queryGPU()
	if err != nil {
		return "", err
	}
	if gpu.UsedGB > m.peakGB {
		m.peakGB = gpu.UsedGB
	}
	return fmt.Sprintf(" Allocated %.1f/%.1fGB \n Total: %.1fGB \n", gpu.UsedGB, m.peakGB, gpu.TotalGB), nil
}

// Records returns a copy of the labelled samples taken since the last reset.
func (m *Monitor) Records() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.records))
	for k, v := range m.records {
		out[k] = v
	}
	return out
}

// LogMemory renders the reset report with a heading, for UI display.
func (m *Monitor) LogMemory() string {
	return "Current memory usage: " + m.Reset()
}

// SystemMemory returns used and total system RAM in GiB via gopsutil.
func SystemMemory() (usedGB, totalGB float64, err error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, fmt.Errorf("read system memory: %w", err)
	}
	const gib = 1024 * 1024 * 1024
	return float64(vm.Used) / gib, float64(vm.Total) / gib, nil
}

// queryNvidiaSMI reads current GPU memory usage from nvidia-smi. Only the
// first GPU is reported; the extension trains on one device.
func queryNvidiaSMI() (GPUMemory, error) {
	out, err := exec.Command("nvidia-smi",
		"--query-gpu=memory.used,memory.total",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		return GPUMemory{}, fmt.Errorf("nvidia-smi: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 {
		return GPUMemory{}, fmt.Errorf("nvidia-smi: empty output")
	}
	return parseGPUMemoryLine(lines[0])
}

// parseGPUMemoryLine parses one "used, total" CSV line of MiB values.
func parseGPUMemoryLine(line string) (GPUMemory, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return GPUMemory{}, fmt.Errorf("unexpected nvidia-smi line %q", line)
	}

	usedMiB, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return GPUMemory{}, fmt.Errorf("parse used memory: %w", err)
	}
	totalMiB, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return GPUMemory{}, fmt.Errorf("parse total memory: %w", err)
	}

	return GPUMemory{UsedGB: usedMiB / 1024, TotalGB: totalMiB / 1024}, nil
}
