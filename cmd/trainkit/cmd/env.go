package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trainkit/trainkit/pkg/imageset"
	"github.com/trainkit/trainkit/pkg/sysinfo"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Report the training environment",
	Long: `Probes the local hardware and reports what a training run can use:
GPU and bf16 support, selectable precision modes and attention backends,
and the image formats the toolkit can decode.`,
	RunE: runEnvReport,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

// EnvReport describes the local training environment.
type EnvReport struct {
	GPU               sysinfo.Capabilities `json:"gpu" yaml:"gpu"`
	PrecisionModes    []string             `json:"precision_modes" yaml:"precision_modes"`
	AttentionBackends []string             `json:"attention_backends" yaml:"attention_backends"`
	ImageExtensions   []string             `json:"image_extensions" yaml:"image_extensions"`
	RAMGB             string               `json:"ram_gb" yaml:"ram_gb"`
	OS                string               `json:"os" yaml:"os"`
	Architecture      string               `json:"arch" yaml:"arch"`
}

func runEnvReport(cmd *cobra.Command, args []string) error {
	caps := sysinfo.Detect()

	ram := "unknown"
	if usedGB, totalGB, err := sysinfo.SystemMemory(); err == nil {
		ram = fmt.Sprintf("%.1f/%.1fGB", usedGB, totalGB)
	}

	report := EnvReport{
		GPU:               caps,
		PrecisionModes:    caps.PrecisionModes(),
		AttentionBackends: caps.AttentionBackends(),
		ImageExtensions:   imageset.SupportedExtensions(),
		RAMGB:             ram,
		OS:                runtime.GOOS,
		Architecture:      runtime.GOARCH,
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)

	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(report)

	default: // text
		gpuText := "No"
		if report.GPU.HasGPU {
			gpuText = fmt.Sprintf("Yes (%s, compute cap %.1f)", report.GPU.GPUName, report.GPU.ComputeCap)
		}

		fmt.Println("Training Environment:")
		fmt.Printf("  GPU: %s\n", gpuText)
		fmt.Printf("  bf16: %v\n", report.GPU.BF16)
		fmt.Printf("  Precision modes: %v\n", report.PrecisionModes)
		fmt.Printf("  Attention backends: %v\n", report.AttentionBackends)
		fmt.Printf("  Image formats: %v\n", report.ImageExtensions)
		fmt.Printf("  RAM: %s\n", report.RAMGB)
		fmt.Printf("  OS: %s/%s\n", report.OS, report.Architecture)

		return nil
	}
}
