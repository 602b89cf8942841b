package sysinfo

import (
	"errors"
	"strings"
	"testing"
)

func fixedQuery(used, total float64) func() (GPUMemory, error) {
	return func() (GPUMemory, error) {
		return GPUMemory{UsedGB: used, TotalGB: total}, nil
	}
}

func TestMonitorNoteRecordsSample(t *testing.T) {
	m := NewMonitorWithQuery(fixedQuery(3.2, 8.0))

	out := m.Note("after load")
	if !strings.Contains(out, "after load") || !strings.Contains(out, "3.2GB") {
		t.Errorf("unexpected note output %q", out)
	}

	records := m.Records()
	if records["after load"] != "3.2/8.0GB" {
		t.Errorf("record = %q, want 3.2/8.0GB", records["after load"])
	}
}

func TestMonitorReportKeepsRecordsAndPeak(t *testing.T) {
	used := 2.0
	m := NewMonitorWithQuery(func() (GPUMemory, error) {
		return GPUMemory{UsedGB: used, TotalGB: 8.0}, nil
	})

	m.Note("after load")
	used = 6.0
	m.Report()
	used = 1.0

	if out := m.Report(); !strings.Contains(out, "1.0/6.0GB") {
		t.Errorf("report should show current/peak, got %q", out)
	}
	if m.Records()["after load"] != "2.0/8.0GB" {
		t.Errorf("report must not clear records, got %v", m.Records())
	}
	// A second read sees the same state.
	if m.Records()["after load"] != "2.0/8.0GB" {
		t.Error("records did not survive repeated reads")
	}
}

func TestMonitorResetTracksPeakAndClears(t *testing.T) {
	used := 2.0
	m := NewMonitorWithQuery(func() (GPUMemory, error) {
		return GPUMemory{UsedGB: used, TotalGB: 8.0}, nil
	})

	m.Note("warmup")
	used = 6.0
	m.Note("training")
	used = 1.0

	out := m.Reset()
	if !strings.Contains(out, "1.0/6.0GB") {
		t.Errorf("reset should report current/peak, got %q", out)
	}
	if len(m.Records()) != 0 {
		t.Error("reset should clear records")
	}

	// Peak must restart after reset.
	if out = m.Reset(); !strings.Contains(out, "1.0/1.0GB") {
		t.Errorf("peak not cleared by reset, got %q", out)
	}
}

func TestMonitorDegradedWithoutGPU(t *testing.T) {
	m := NewMonitorWithQuery(func() (GPUMemory, error) {
		return GPUMemory{}, errors.New("exec: nvidia-smi not found")
	})

	if got := m.Note("anything"); got != ErrNoGPUText {
		t.Errorf("Note = %q, want degraded text", got)
	}
	if got := m.LogMemory(); !strings.Contains(got, ErrNoGPUText) {
		t.Errorf("LogMemory = %q, want degraded text", got)
	}
}

func TestParseGPUMemoryLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr bool
		used    float64
	}{
		{"well formed", "2048, 8192", false, 2.0},
		{"extra whitespace", "  1024 ,  4096 ", false, 1.0},
		{"missing field", "2048", true, 0},
		{"garbage", "N/A, N/A", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGPUMemoryLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.UsedGB != tt.used {
				t.Errorf("used = %.1f, want %.1f", got.UsedGB, tt.used)
			}
		})
	}
}

func TestCapabilitiesPrecisionModes(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want int
	}{
		{"ampere gets bf16", parseCapabilitiesLine("NVIDIA GeForce RTX 3090, 8.6"), 3},
		{"turing does not", parseCapabilitiesLine("NVIDIA GeForce RTX 2080, 7.5"), 2},
		{"cpu only", Capabilities{}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.caps.PrecisionModes(); len(got) != tt.want {
				t.Errorf("PrecisionModes = %v, want %d entries", got, tt.want)
			}
		})
	}
}

func TestCapabilitiesAttentionBackends(t *testing.T) {
	gpu := parseCapabilitiesLine("NVIDIA A100-SXM4-40GB, 8.0")
	if got := gpu.AttentionBackends(); len(got) != 3 || got[1] != "xformers" {
		t.Errorf("gpu backends = %v", got)
	}
	if got := (Capabilities{}).AttentionBackends(); len(got) != 2 {
		t.Errorf("cpu backends = %v", got)
	}
	if !gpu.BF16 {
		t.Error("compute cap 8.0 should support bf16")
	}
}
