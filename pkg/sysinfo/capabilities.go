package sysinfo

import (
	"os/exec"
	"strconv"
	"strings"
)

// bf16MinComputeCap is the lowest CUDA compute capability with bfloat16
// support (Ampere).
const bf16MinComputeCap = 8.0

// Capabilities describes the training-relevant features of the local GPU.
type Capabilities struct {
	HasGPU     bool    `json:"has_gpu" yaml:"has_gpu"`
	GPUName    string  `json:"gpu_name,omitempty" yaml:"gpu_name,omitempty"`
	ComputeCap float64 `json:"compute_cap,omitempty" yaml:"compute_cap,omitempty"`
	BF16       bool    `json:"bf16" yaml:"bf16"`
}

// Detect probes the local GPU through nvidia-smi. A probe failure is not an
// error; it simply means CPU-only capabilities.
func Detect() Capabilities {
	out, err := exec.Command("nvidia-smi",
		"--query-gpu=name,compute_cap",
		"--format=csv,noheader").Output()
	if err != nil {
		return Capabilities{}
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return Capabilities{}
	}
	return parseCapabilitiesLine(lines[0])
}

func parseCapabilitiesLine(line string) Capabilities {
	caps := Capabilities{HasGPU: true}

	fields := strings.Split(line, ",")
	caps.GPUName = strings.TrimSpace(fields[0])
	if len(fields) > 1 {
		if cc, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err == nil {
			caps.ComputeCap = cc
			caps.BF16 = cc >= bf16MinComputeCap
		}
	}
	return caps
}

// PrecisionModes returns the mixed-precision options a training run may
// select, in UI order. bf16 is only offered when the hardware supports it.
func (c Capabilities) PrecisionModes() []string {
	if c.BF16 {
		return []string{"no", "fp16", "bf16"}
	}
	return []string{"no", "fp16"}
}

// AttentionBackends returns the attention implementations worth offering on
// this hardware. Memory-efficient attention needs a CUDA device; the flash
// fallback is always listed.
func (c Capabilities) AttentionBackends() []string {
	if c.HasGPU {
		return []string{"default", "xformers", "flash_attention"}
	}
	return []string{"default", "flash_attention"}
}
