package cmd

import (
	"os"

	"portfoliotracker/api"
	"portfoliotracker/internal/app"
	"portfoliotracker/internal/logger"
	"portfoliotracker/internal/service"
)

// InitializeDependencies wires the handler graph. Set PORTFOLIO_OFFLINE=1 to
// run without the external market data provider - the price resolver then
// relies on transacted prices and average cost.
func InitializeDependencies() (*api.ApiHandler, error) {
	log := logger.New()

	var provider service.MarketDataProvider
	if os.Getenv("PORTFOLIO_OFFLINE") == "" {
		provider = service.NewYahooProvider()
	}

	apiHandler := &api.ApiHandler{
		ReconstructionHandler: app.ReconstructionHandler{
			Provider: provider,
			Logger:   log,
		},
		Logger: log,
	}

	return apiHandler, nil
}
