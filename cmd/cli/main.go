package main

import (
	"fmt"
	"os"

	"portfoliotracker/api"
	"portfoliotracker/internal/app"
	"portfoliotracker/internal/ingest"
	"portfoliotracker/internal/logger"
	"portfoliotracker/internal/service"
	"portfoliotracker/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagFile    string
	flagMode    string
	flagBase    string
	flagOffline bool
)

var rootCmd = &cobra.Command{
	Use:   "portfoliotracker",
	Short: "Reconstruct a portfolio time series from a brokerage CSV export",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(flagFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", flagFile, err)
		}
		defer f.Close()

		txns, err := ingest.ParseCSV(f)
		if err != nil {
			return err
		}

		var provider service.MarketDataProvider
		if !flagOffline {
			provider = service.NewYahooProvider()
		}
		handler := app.ReconstructionHandler{
			Provider: provider,
			Logger:   logger.New(),
		}

		result, err := handler.Reconstruct(cmd.Context(), app.ReconstructionInput{
			Transactions: txns,
			Mode:         app.SnapshotMode(flagMode),
			BaseCurrency: flagBase,
		})
		if err != nil {
			return err
		}

		util.Pprint(api.NewProcessTransactionsResponse(result))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagFile, "file", "f", "", "path to the transaction CSV export")
	rootCmd.Flags().StringVarP(&flagMode, "mode", "m", string(app.SnapshotModeDaily), "snapshot mode: daily or events")
	rootCmd.Flags().StringVarP(&flagBase, "base", "b", app.DefaultBaseCurrency, "base currency")
	rootCmd.Flags().BoolVar(&flagOffline, "offline", false, "skip external market data lookups")
	rootCmd.MarkFlagRequired("file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
