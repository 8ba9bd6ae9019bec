package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcmtools/cdbkit/pkg/api"
	"github.com/pcmtools/cdbkit/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion HTTP API",
	Long: `Run the conversion HTTP API. Uploaded CDB files come back as
SQLite databases and vice versa.

The server bootstraps a configuration file with a generated API key on
first run.

Example:
  cdbkit serve --config ~/.config/cdbkit/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		var err error
		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
		} else {
			fmt.Printf("Bootstrapping configuration at %s\n", configPath)
			cfg, err = config.BootstrapConfig(configPath, "")
		}
		if err != nil {
			return err
		}

		return api.StartServer(api.ServerConfig{
			Bind:    cfg.Bind,
			Port:    cfg.Port,
			APIKey:  cfg.Security.APIKey,
			WorkDir: cfg.WorkDir,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Configuration file path")
}
