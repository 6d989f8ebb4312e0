// File: cmd/root.go
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/earshot-dev/earshot/internal/config"
	"github.com/earshot-dev/earshot/internal/observability"
)

var (
	cfgFile string
	cfg     config.Interface
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "earshot",
	Short: "Earshot is a virtual screen reader for automated accessibility testing.",
	// Version is dynamically set at build time. See cmd/version.go.
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// This runs before any command, setting up config and logging.
		loaded, err := config.Load(cfgFile)
		if err != nil {
			// Initialize a fallback logger so the failure is still reported.
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "earshot"})
			return err
		}
		cfg = loaded

		observability.InitializeLogger(cfg.Logger())
		observability.GetLogger().Debug("starting earshot", zap.String("version", Version))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// GetLogger falls back to a development logger when initialization
		// never ran, so the failure is always reported somewhere visible.
		observability.GetLogger().Error("command execution failed", zap.Error(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(newReadCmd())
}
