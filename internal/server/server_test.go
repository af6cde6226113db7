package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-receipts-must-flow/internal/model"
	"github.com/Veraticus/the-receipts-must-flow/internal/storage"
)

// stubExtractor returns a canned result for every image.
type stubExtractor struct {
	result model.ExtractionResult
}

func (s *stubExtractor) Extract(_ context.Context, _ []byte, _ string) model.ExtractionResult {
	return s.result
}

func newTestServer(t *testing.T, extractor ReceiptExtractor) *Server {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	return New(":0", store, extractor, slog.Default())
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestScanWithoutExtractorReturns503(t *testing.T) {
	srv := newTestServer(t, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("receipt", "receipt.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("image-bytes"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["error"], "not configured")
}

func TestScanReceipt(t *testing.T) {
	extractor := &stubExtractor{
		result: model.ExtractionResult{
			Merchant:          "Whole Foods",
			Amount:            52.30,
			Date:              time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Items:             []string{"apples"},
			SuggestedCategory: model.CategoryByID("groceries"),
			Confidence:        0.9,
		},
	}
	srv := newTestServer(t, extractor)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("receipt", "receipt.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("image-bytes"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[model.ExtractionResult](t, rec)
	assert.Equal(t, "Whole Foods", result.Merchant)
	assert.Equal(t, "groceries", result.SuggestedCategory.ID)
}

func TestScanMissingFile(t *testing.T) {
	srv := newTestServer(t, &stubExtractor{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("unrelated", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/scan", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCategories(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	categories := decodeBody[[]model.Category](t, rec)
	assert.Len(t, categories, 10)
}

func TestExpenseLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	create := doJSON(t, srv, http.MethodPost, "/api/v1/expenses/", map[string]any{
		"merchant":   "Starbucks",
		"amount":     6.50,
		"categoryId": "food",
		"date":       "2024-03-10",
		"items":      []string{"latte"},
	})
	require.Equal(t, http.StatusCreated, create.Code)
	created := decodeBody[model.Expense](t, create)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "food", created.Category.ID)

	get := doJSON(t, srv, http.MethodGet, "/api/v1/expenses/"+created.ID, nil)
	require.Equal(t, http.StatusOK, get.Code)

	update := doJSON(t, srv, http.MethodPut, "/api/v1/expenses/"+created.ID, map[string]any{
		"merchant":   "Starbucks Reserve",
		"amount":     8.00,
		"categoryId": "food",
		"date":       "2024-03-10",
	})
	require.Equal(t, http.StatusOK, update.Code)
	updated := decodeBody[model.Expense](t, update)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Starbucks Reserve", updated.Merchant)

	list := doJSON(t, srv, http.MethodGet, "/api/v1/expenses/", nil)
	require.Equal(t, http.StatusOK, list.Code)
	expenses := decodeBody[[]model.Expense](t, list)
	assert.Len(t, expenses, 1)

	del := doJSON(t, srv, http.MethodDelete, "/api/v1/expenses/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, del.Code)

	gone := doJSON(t, srv, http.MethodGet, "/api/v1/expenses/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestCreateExpenseValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		body map[string]any
		name string
	}{
		{
			name: "bad date",
			body: map[string]any{"merchant": "X", "amount": 5, "categoryId": "food", "date": "tomorrow"},
		},
		{
			name: "zero amount",
			body: map[string]any{"merchant": "X", "amount": 0, "categoryId": "food", "date": "2024-03-10"},
		},
		{
			name: "missing merchant",
			body: map[string]any{"amount": 5, "categoryId": "food", "date": "2024-03-10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/v1/expenses/", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateMissingExpense(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv, http.MethodPut, "/api/v1/expenses/no-such-id", map[string]any{
		"merchant": "X", "amount": 5, "categoryId": "food", "date": "2024-03-10",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBudgetLifecycleAndStatus(t *testing.T) {
	srv := newTestServer(t, nil)

	create := doJSON(t, srv, http.MethodPost, "/api/v1/budgets/", map[string]any{
		"categoryId": "food",
		"amount":     200,
		"period":     "monthly",
	})
	require.Equal(t, http.StatusCreated, create.Code)
	budget := decodeBody[model.Budget](t, create)
	require.NotEmpty(t, budget.ID)

	// Record spending inside the current month so status picks it up.
	today := time.Now().UTC().Format("2006-01-02")
	expense := doJSON(t, srv, http.MethodPost, "/api/v1/expenses/", map[string]any{
		"merchant":   "Diner",
		"amount":     50,
		"categoryId": "food",
		"date":       today,
	})
	require.Equal(t, http.StatusCreated, expense.Code)

	status := doJSON(t, srv, http.MethodGet, "/api/v1/budgets/status", nil)
	require.Equal(t, http.StatusOK, status.Code)
	statuses := decodeBody[[]model.BudgetStatus](t, status)
	require.Len(t, statuses, 1)
	assert.InDelta(t, 50, statuses[0].Spent, 0.001)

	del := doJSON(t, srv, http.MethodDelete, "/api/v1/budgets/"+budget.ID, nil)
	assert.Equal(t, http.StatusNoContent, del.Code)
}

func TestCreateBudgetInvalidPeriod(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/budgets/", map[string]any{
		"categoryId": "food",
		"amount":     200,
		"period":     "daily",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpenseSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, e := range []map[string]any{
		{"merchant": "Cafe", "amount": 12, "categoryId": "food", "date": "2024-03-05"},
		{"merchant": "Uber", "amount": 9, "categoryId": "transport", "date": "2024-03-10"},
	} {
		rec := doJSON(t, srv, http.MethodPost, "/api/v1/expenses/", e)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/expenses/summary?from=2024-03-01&to=2024-04-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[map[string]float64](t, rec)
	assert.InDelta(t, 12, summary["food"], 0.001)
	assert.InDelta(t, 9, summary["transport"], 0.001)
}
