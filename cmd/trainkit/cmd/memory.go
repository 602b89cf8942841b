package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trainkit/trainkit/pkg/sysinfo"
)

// memoryCmd represents the memory command
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Report GPU and system memory usage",
	RunE:  runMemoryReport,
}

func init() {
	rootCmd.AddCommand(memoryCmd)
}

func runMemoryReport(cmd *cobra.Command, args []string) error {
	monitor := sysinfo.NewMonitor()
	fmt.Println(monitor.LogMemory())

	usedGB, totalGB, err := sysinfo.SystemMemory()
	if err != nil {
		return err
	}
	fmt.Printf("System RAM: %.1f/%.1fGB\n", usedGB, totalGB)

	return nil
}
