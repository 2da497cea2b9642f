package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfoliotracker/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCSV = "Transaction Date,Settlement Date,Action,Symbol,Description,Quantity,Price,Gross Amount,Commission,Net Amount,Currency,Activity Type\n" +
	"2024-01-01,2024-01-03,CON,,Contribution,,,,,1000.00,CAD,Deposits\n" +
	"2024-01-01,2024-01-03,Buy,XYZ,XYZ CORP,10,10.00,-100.00,-0.50,-100.00,CAD,Trades\n" +
	"2024-01-02,2024-01-04,Sell,XYZ,XYZ CORP,5,12.00,60.00,-0.50,59.50,CAD,Trades\n"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()
	handler := ApiHandler{
		// nil provider keeps the test offline
		ReconstructionHandler: app.ReconstructionHandler{Logger: log},
		Logger:                log,
	}
	return handler.InitializeRouterEngine()
}

func multipartBody(t *testing.T, csvContent string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "transactions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func Test_processTransactions(t *testing.T) {
	t.Run("multipart upload returns history and stats", func(t *testing.T) {
		router := newTestRouter()
		body, contentType := multipartBody(t, testCSV)

		req := httptest.NewRequest(http.MethodPost, "/processTransactions", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, 200, w.Code)

		var resp ProcessTransactionsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		require.Len(t, resp.History, 2)
		require.Equal(t, "2024-01-01", resp.History[0].Date)
		require.Equal(t, "2024-01-02", resp.History[1].Date)
		require.InDelta(t, 959.5, resp.History[1].Cash, 1e-9)
		require.InDelta(t, 1019.5, resp.History[1].TotalValue, 1e-9)

		require.InDelta(t, 1019.5, resp.Stats.CurrentValue, 1e-9)
		require.Equal(t, 1, resp.Stats.ContributionCount)
		require.Len(t, resp.Stats.Allocation, 1)
		require.Equal(t, "XYZ", resp.Stats.Allocation[0].Symbol)
		require.NotEmpty(t, resp.Stats.Allocation[0].Color)
	})

	t.Run("raw body upload works too", func(t *testing.T) {
		router := newTestRouter()

		req := httptest.NewRequest(http.MethodPost, "/processTransactions", strings.NewReader(testCSV))
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, 200, w.Code)
	})

	t.Run("event mode via query param", func(t *testing.T) {
		router := newTestRouter()
		body, contentType := multipartBody(t, testCSV)

		req := httptest.NewRequest(http.MethodPost, "/processTransactions?mode=events", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, 200, w.Code)

		var resp ProcessTransactionsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		// one snapshot per transaction row
		require.Len(t, resp.History, 3)
	})

	t.Run("malformed file is a 400", func(t *testing.T) {
		router := newTestRouter()
		body, contentType := multipartBody(t, "Symbol,Quantity\nXYZ,10\n")

		req := httptest.NewRequest(http.MethodPost, "/processTransactions", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, 400, w.Code)
		require.Contains(t, w.Body.String(), "missing required column")
	})

	t.Run("header-only file is a 400", func(t *testing.T) {
		router := newTestRouter()
		body, contentType := multipartBody(t,
			"Transaction Date,Settlement Date,Action,Symbol,Description,Quantity,Price,Gross Amount,Commission,Net Amount,Currency,Activity Type\n")

		req := httptest.NewRequest(http.MethodPost, "/processTransactions", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, 400, w.Code)
	})
}
