// Package registry lists locally trained model checkpoints so the host UI
// can offer them in dropdowns.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	modelSubdir = "dreambooth"
	loraSubdir  = "lora"
)

// ListModels returns the names of trained model directories under
// <root>/dreambooth. A missing root yields an empty list, not an error;
// the extension may simply not have trained anything yet.
func ListModels(root string) []string {
	dir := filepath.Join(root, modelSubdir)
	out := []string{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, entry := range entries {
		if entry.IsDir() {
			out = append(out, entry.Name())
		}
	}
	return out
}

// ListLoraModels returns selectable LoRA checkpoint files under
// <root>/lora. The first entry is always empty, the UI's "no LoRA"
// choice. Text-encoder companions (*_txt.pt) are filtered out.
func ListLoraModels(root string) []string {
	dir := filepath.Join(root, loraSubdir)
	out := []string{""}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.Contains(name, ".pt") && !strings.Contains(name, "_txt.pt") {
			out = append(out, name)
		}
	}
	return out
}

// UsernameSource resolves the hub account a trained model would be
// uploaded under when no organization is configured.
type UsernameSource interface {
	Username() (string, error)
}

// FullRepoName returns the hub repository name for a trained model:
// organization/model when an organization is set, otherwise the account
// name resolved through src joined with the model id.
func FullRepoName(modelID, organization string, src UsernameSource) (string, error) {
	if organization != "" {
		return organization + "/" + modelID, nil
	}
	username, err := src.Username()
	if err != nil {
		return "", fmt.Errorf("resolve hub username: %w", err)
	}
	return username + "/" + modelID, nil
}

// Checkpoint identifies one entry in the host application's checkpoint list.
type Checkpoint struct {
	Title     string `json:"title"`
	ModelName string `json:"model_name"`
	Filename  string `json:"filename"`
}

// FindCheckpoint returns the first checkpoint whose title, model name, or
// filename contains the search string, or nil when nothing matches.
func FindCheckpoint(checkpoints []Checkpoint, search string) *Checkpoint {
	for i := range checkpoints {
		c := &checkpoints[i]
		if strings.Contains(c.Title, search) ||
			strings.Contains(c.ModelName, search) ||
			strings.Contains(c.Filename, search) {
			return c
		}
	}
	return nil
}
