package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngothanh/posi/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check that a configuration file parses and passes validation.

Examples:
  # Validate the default config file
  posi validate

  # Validate a specific file
  posi validate --config /etc/posi/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  Listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  Rate: %d permits per %s\n", cfg.Limiter.PermitNum, cfg.Limiter.Window)
	fmt.Printf("  Algorithms: %v\n", cfg.Limiter.Algorithms)
	fmt.Printf("  Permit store: %s\n", cfg.Limiter.Store.Backend)
	return nil
}
