package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/amaumene/venusplay/internal/config"
	"github.com/amaumene/venusplay/internal/constants"
)

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:     constants.ServiceName,
		Short:   "Read-only catalog proxy for an Xtream-style IPTV panel",
		Version: constants.ServiceVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			if err := loader.BindFlags(cmd.Flags()); err != nil {
				return err
			}

			cfg, err := loader.Load(configFile)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to a config file (yaml, toml or json)")
	cmd.Flags().StringP("port", "p", constants.DefaultPort, "HTTP listen port")
	cmd.Flags().String("log-level", constants.DefaultLogLevel, "Log level: debug, info, warn, error")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
