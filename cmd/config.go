package cmd

import (
	"fmt"
	"os"

	"refsync/core/config"

	"github.com/spf13/cobra"
)

var (
	configFile   string
	configReveal bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after .env, config.yaml and environment
variables are applied. Secrets are redacted unless --reveal is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out, err := config.Dump(cfg, configReveal)
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}

		if configFile != "" {
			return os.WriteFile(configFile, out, 0o600)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	configCmd.Flags().StringVar(&configFile, "file", "", "Write the configuration to this file instead of stdout")
	configCmd.Flags().BoolVar(&configReveal, "reveal", false, "Print secrets in clear")
	RootCmd.AddCommand(configCmd)
}
