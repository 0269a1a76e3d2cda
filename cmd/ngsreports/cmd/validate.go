// Package cmd implements CLI commands for the ngsreports tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ngsreports/internal/config"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long:  "Loads and validates the configuration file, checking format, required fields, value ranges, and threshold ordering.",
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate executes the validate command logic.
func runValidate(cmd *cobra.Command, args []string) {
	configPath := GetConfigFile()

	// Load and validate configuration (Load internally calls Validate)
	_, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation failed: %v\n", err)
		os.Exit(1)
	}

	if configPath == "" {
		fmt.Println("✅ Configuration valid: built-in defaults (no config file)")
		return
	}
	fmt.Printf("✅ Configuration valid: %s\n", configPath)
}
