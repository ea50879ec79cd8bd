package main

import (
	"fmt"

	"lendledger/internal/config"
	"lendledger/internal/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "lendledger",
	Short:         "Peer-to-peer lending ledger",
	Long:          `lendledger tracks loan requests, loans, repayments and user balances, and runs the accrual and default-detection jobs over them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		l, err := logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file merged into the environment")
}
