package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitvault/internal/config"
	"github.com/mmynk/splitvault/internal/settlement"
	"github.com/mmynk/splitvault/internal/storage/sqlite"
)

var fundAsset string

func init() {
	fundCmd.Flags().StringVarP(&fundAsset, "asset", "a", "", "Asset to credit (default: DEV_FUND_ASSET)")
}

var fundCmd = &cobra.Command{
	Use:   "fund <account> <amount>",
	Short: "Credit an account in the local ledger (development only)",
	Long:  "Credit an account in the local ledger so it can lock collateral and pay splits. Intended for local development and demos.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		account := args[0]
		amount, err := decimal.NewFromString(args[1])
		if err != nil || !amount.IsPositive() || settlement.CheckAmount(amount) != nil {
			return fmt.Errorf("amount must be a positive decimal, got %q", args[1])
		}
		asset := fundAsset
		if asset == "" {
			asset = cfg.DevFundAsset
		}

		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		balances := store.Ledger()
		if err := balances.Credit(cmd.Context(), account, asset, amount); err != nil {
			return err
		}
		balance, err := balances.BalanceOf(cmd.Context(), account, asset)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s now holds %s %s\n", account, balance, asset)
		return nil
	},
}
