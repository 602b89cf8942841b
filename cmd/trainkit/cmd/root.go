package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	modelsRoot   string
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "trainkit",
	Short: "Utilities for the model-training extension",
	Long: `trainkit operates the training extension's toolkit outside the host
application: list trained checkpoints and training images, inspect GPU
memory and hardware capabilities, and run the status API the host UI polls.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trainkit/config)")
	rootCmd.PersistentFlags().StringVar(&modelsRoot, "models-path", "", "root directory holding model checkpoints (default from config or ./models)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, or yaml")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".trainkit"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.BindEnv("models_path", "TRAINKIT_MODELS_PATH")
	viper.BindEnv("listen_addr", "TRAINKIT_LISTEN_ADDR")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		// Config file found and successfully parsed
		if viper.GetString("models_path") != "" && modelsRoot == "" {
			modelsRoot = viper.GetString("models_path")
		}
	}
	if modelsRoot == "" {
		modelsRoot = "./models"
	}
}

// GetModelsRoot returns the configured checkpoint root directory.
func GetModelsRoot() string {
	return modelsRoot
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
