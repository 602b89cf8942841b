package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/trainkit/trainkit/pkg/registry"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List locally trained model checkpoints",
	Long:  `List the trained model checkpoints available under the configured models path.`,
	RunE:  runModelsList,
}

// modelsLorasCmd represents the models loras command
var modelsLorasCmd = &cobra.Command{
	Use:   "loras",
	Short: "List LoRA checkpoint files",
	Long:  `List the selectable LoRA checkpoint files under the configured models path.`,
	RunE:  runLorasList,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsLorasCmd)
}

func runModelsList(cmd *cobra.Command, args []string) error {
	models := registry.ListModels(GetModelsRoot())

	if IsJSONOutput() {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string][]string{"models": models})
	}

	if len(models) == 0 {
		fmt.Printf("No trained models found under %s\n", GetModelsRoot())
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Model")
	for i, name := range models {
		table.Append([]string{fmt.Sprintf("%d", i+1), name})
	}
	table.Render()

	return nil
}

func runLorasList(cmd *cobra.Command, args []string) error {
	loras := registry.ListLoraModels(GetModelsRoot())

	if IsJSONOutput() {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string][]string{"loras": loras})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "LoRA")
	for i, name := range loras {
		if name == "" {
			name = "(none)"
		}
		table.Append([]string{fmt.Sprintf("%d", i), name})
	}
	table.Render()

	return nil
}
