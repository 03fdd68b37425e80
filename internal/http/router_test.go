package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/export"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	expenseHandler "github.com/MrJamesThe3rd/tally/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/tally/internal/http/export"
	settingsHandler "github.com/MrJamesThe3rd/tally/internal/http/settings"
	summaryHandler "github.com/MrJamesThe3rd/tally/internal/http/summary"
	"github.com/MrJamesThe3rd/tally/internal/kv/memory"
	"github.com/MrJamesThe3rd/tally/internal/settings"
	"github.com/MrJamesThe3rd/tally/internal/sink"
	"github.com/MrJamesThe3rd/tally/internal/tracker"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	store := memory.New()
	ledger := expense.NewLedger(store, expense.WithLogger(logger))

	svc := tracker.NewService(
		ledger,
		settings.NewService(store, logger),
		sink.NewClient(time.Second, logger),
		export.NewService(ledger),
		logger,
	)

	router := tallyHttp.New(
		[]string{"*"},
		expenseHandler.NewHandler(svc),
		summaryHandler.NewHandler(svc),
		exportHandler.NewHandler(svc),
		settingsHandler.NewHandler(svc),
	)

	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close(context.Background())
	})

	return srv
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

type expenseBody struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func TestExpenses_Flow(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/api/v1"

	resp := do(t, http.MethodPost, base+"/expenses", map[string]any{
		"date": "2024-01-15", "amount": 50, "category": "Food", "description": "",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Expense expenseBody `json:"expense"`
		Sync    string      `json:"sync"`
	}
	decode(t, resp, &created)

	assert.Equal(t, "not_configured", created.Sync)
	assert.Equal(t, "-", created.Expense.Description)

	resp = do(t, http.MethodPost, base+"/expenses", map[string]any{
		"date": "2024-01-16", "amount": "25.5", "category": "Transportation", "description": "Bus",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/expenses", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Expenses []expenseBody `json:"expenses"`
		Total    float64       `json:"total"`
	}
	decode(t, resp, &list)

	require.Len(t, list.Expenses, 2)
	assert.Equal(t, "Transportation", list.Expenses[0].Category)
	assert.InDelta(t, 75.5, list.Total, 0.0001)

	resp = do(t, http.MethodDelete, base+"/expenses/"+created.Expense.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, base+"/expenses/does-not-exist", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "expenses_")

	wb, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)

	defer wb.Close()

	rows, err := wb.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Category", "Description", "Amount"},
		{"2024-01-16", "Transportation", "Bus", "25.5"},
	}, rows)
}

func TestExpenses_CreateValidation(t *testing.T) {
	srv := newServer(t)

	type testCase struct {
		name string
		body any
	}

	tests := []testCase{
		{name: "MissingAmount", body: map[string]any{"category": "Food"}},
		{name: "ZeroAmount", body: map[string]any{"amount": 0, "category": "Food"}},
		{name: "UnknownCategory", body: map[string]any{"amount": 3, "category": "Pets"}},
		{name: "BadDate", body: map[string]any{"amount": 3, "category": "Food", "date": "yesterday"}},
		{name: "NotJSON", body: "amount=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/expenses", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/expenses", nil)

	var list struct {
		Expenses []expenseBody `json:"expenses"`
	}
	decode(t, resp, &list)
	assert.Empty(t, list.Expenses)
}

func TestSettings(t *testing.T) {
	srv := newServer(t)
	base := srv.URL + "/api/v1"

	resp := do(t, http.MethodPut, base+"/settings", map[string]string{"destination_url": "ftp://nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, base+"/settings", map[string]string{"destination_url": "http://127.0.0.1:1/hook"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/settings", nil)

	var got map[string]string
	decode(t, resp, &got)
	assert.Equal(t, "http://127.0.0.1:1/hook", got["destination_url"])

	resp = do(t, http.MethodPost, base+"/expenses", map[string]any{"amount": 1, "category": "Other"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Sync string `json:"sync"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "pending", created.Sync)
}

func TestSummaryAndMetrics(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/expenses", map[string]any{"amount": 12, "category": "Bills"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sum struct {
		Count      int `json:"count"`
		Categories []struct {
			Category string `json:"category"`
		} `json:"categories"`
	}
	decode(t, resp, &sum)
	assert.Equal(t, 1, sum.Count)
	require.Len(t, sum.Categories, 1)
	assert.Equal(t, "Bills", sum.Categories[0].Category)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
