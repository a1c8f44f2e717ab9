package cli

import (
	"github.com/spf13/cobra"

	"github.com/gighall/gighall/internal/daemon"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "", "Bind host (overrides config)")
	serveCmd.Flags().IntP("port", "p", 0, "Bind port (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the GigHall API server",
	Long:  `Start the HTTP API server and serve requests until interrupted.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.API.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.API.Port = port
	}
	return daemon.Run(cfg)
}
