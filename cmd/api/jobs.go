package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// one-shot batch runs, for cron outside the process or manual recovery
func jobCmd(use, short string, pick func(*app) func(context.Context) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.JobTimeoutSecs)*time.Second)
			defer cancel()
			ids, err := pick(a)(ctx)
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			log.Info("job finished", zap.String("job", use), zap.Int("loans", len(ids)))
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(
		jobCmd("accrue", "Book accrued interest and due installments on active loans",
			func(a *app) func(context.Context) ([]string, error) { return a.repayments.AccrueAll }),
		jobCmd("check-defaults", "Mark overdue active loans as defaulted",
			func(a *app) func(context.Context) ([]string, error) { return a.loans.CheckForDefault }),
		jobCmd("auto-repay", "Deduct the installment from every due loan",
			func(a *app) func(context.Context) ([]string, error) { return a.repayments.AutomateLoanRepayment }),
	)
}
