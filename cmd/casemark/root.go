package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"casemark/internal/config"
	"casemark/internal/version"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

func execute() error {
	root := &cobra.Command{
		Use:           "casemark",
		Short:         "Forensic feature extraction for fired cartridge-case images",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			} else {
				cfg = config.Default()
			}
			logger, err = config.NewLogger(cfg.Logging.Level, cfg.Logging.Output)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (defaults apply when omitted)")
	root.AddCommand(analyzeCmd(), serveCmd())
	return root.Execute()
}
