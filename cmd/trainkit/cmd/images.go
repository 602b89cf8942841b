package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/trainkit/trainkit/pkg/imageset"
)

// imagesCmd represents the images command
var imagesCmd = &cobra.Command{
	Use:   "images <dir>",
	Short: "Enumerate training images in a directory",
	Long: `Recursively enumerate the decodable training images under a directory,
the same set the training UI would pick up.`,
	Args: cobra.ExactArgs(1),
	RunE: runImagesList,
}

func init() {
	rootCmd.AddCommand(imagesCmd)
}

func runImagesList(cmd *cobra.Command, args []string) error {
	dir := args[0]

	images, err := imageset.List(dir)
	if err != nil {
		return fmt.Errorf("failed to list images in %s: %w", dir, err)
	}

	if IsJSONOutput() {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"dir":    dir,
			"count":  len(images),
			"images": images,
		})
	}

	if len(images) == 0 {
		fmt.Printf("No images found under %s (supported: %v)\n", dir, imageset.SupportedExtensions())
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Image", "Type")
	for _, path := range images {
		table.Append([]string{path, filepath.Ext(path)})
	}
	table.Render()
	fmt.Printf("\n%d images\n", len(images))

	return nil
}
