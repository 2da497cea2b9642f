package api

import (
	"errors"
	"io"
	"time"

	"portfoliotracker/internal/app"
	"portfoliotracker/internal/ingest"

	"github.com/gin-gonic/gin"
)

type SnapshotResponse struct {
	Date           string             `json:"date"`
	Cash           float64            `json:"cash"`
	Positions      map[string]float64 `json:"positions"`
	PositionValues map[string]float64 `json:"positionValues"`
	TotalValue     float64            `json:"totalValue"`
}

type AllocationResponse struct {
	Symbol     string  `json:"symbol"`
	Percentage float64 `json:"percentage"`
	Value      float64 `json:"value"`
	Color      string  `json:"color"`
}

type SummaryStatsResponse struct {
	CurrentValue         float64              `json:"currentValue"`
	TotalReturn          float64              `json:"totalReturn"`
	TotalContributions   float64              `json:"totalContributions"`
	ContributionCount    int                  `json:"contributionCount"`
	TotalDividends       float64              `json:"totalDividends"`
	DividendCount        int                  `json:"dividendCount"`
	AnnualizedVolatility float64              `json:"annualizedVolatility"`
	BestDay              float64              `json:"bestDay"`
	WorstDay             float64              `json:"worstDay"`
	Allocation           []AllocationResponse `json:"allocation"`
}

type ProcessTransactionsResponse struct {
	History []SnapshotResponse   `json:"history"`
	Stats   SummaryStatsResponse `json:"stats"`
}

// NewProcessTransactionsResponse flattens the reconstruction result into the
// JSON shape the chart front end consumes. Exported so the CLI entrypoint
// can emit the identical document.
func NewProcessTransactionsResponse(result *app.ReconstructionResult) ProcessTransactionsResponse {
	history := make([]SnapshotResponse, 0, len(result.History))
	for _, snapshot := range result.History {
		positions := map[string]float64{}
		for symbol, quantity := range snapshot.Positions {
			positions[symbol] = quantity.InexactFloat64()
		}
		positionValues := map[string]float64{}
		for symbol, value := range snapshot.PositionValues {
			positionValues[symbol] = value.InexactFloat64()
		}
		history = append(history, SnapshotResponse{
			Date:           snapshot.Date.Format(time.DateOnly),
			Cash:           snapshot.Cash.InexactFloat64(),
			Positions:      positions,
			PositionValues: positionValues,
			TotalValue:     snapshot.TotalValue.InexactFloat64(),
		})
	}

	allocation := make([]AllocationResponse, 0, len(result.Stats.Allocation))
	for _, slice := range result.Stats.Allocation {
		allocation = append(allocation, AllocationResponse{
			Symbol:     slice.Symbol,
			Percentage: slice.Percentage,
			Value:      slice.Value.InexactFloat64(),
			Color:      slice.Color,
		})
	}

	return ProcessTransactionsResponse{
		History: history,
		Stats: SummaryStatsResponse{
			CurrentValue:         result.Stats.CurrentValue.InexactFloat64(),
			TotalReturn:          result.Stats.TotalReturn,
			TotalContributions:   result.Stats.TotalContributions.InexactFloat64(),
			ContributionCount:    result.Stats.ContributionCount,
			TotalDividends:       result.Stats.TotalDividends.InexactFloat64(),
			DividendCount:        result.Stats.DividendCount,
			AnnualizedVolatility: result.Stats.AnnualizedVolatility,
			BestDay:              result.Stats.BestDay,
			WorstDay:             result.Stats.WorstDay,
			Allocation:           allocation,
		},
	}
}

// processTransactions accepts a brokerage CSV export - either as the
// multipart form field "file" or as a raw request body - reconstructs the
// portfolio time series and responds with history plus summary stats.
//
// Optional query params: mode=daily|events, base=<currency code>.
func (m ApiHandler) processTransactions(c *gin.Context) {
	var reader io.Reader
	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		reader = file
	} else {
		reader = c.Request.Body
	}

	txns, err := ingest.ParseCSV(reader)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	in := app.ReconstructionInput{
		Transactions: txns,
		Mode:         app.SnapshotMode(c.Query("mode")),
		BaseCurrency: c.Query("base"),
	}

	result, err := m.ReconstructionHandler.Reconstruct(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, app.ErrNoTransactions) {
			returnErrorJsonCode(err, c, 400)
			return
		}
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, NewProcessTransactionsResponse(result))
}
