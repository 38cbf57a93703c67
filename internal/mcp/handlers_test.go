package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/catalog"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cat, err := catalog.Default()
	require.NoError(t, err)

	ledger := services.NewLedgerService(store, cat, services.Options{
		CacheSize: 32,
		CacheTTL:  time.Minute,
	})
	logger := log.New(log.Config{Level: slog.LevelError, Writer: io.Discard})
	return NewServer(ledger, cat, logger)
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

type errorBody struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, res *mcp.CallToolResult) errorBody {
	t.Helper()
	require.NotNil(t, res)
	require.True(t, res.IsError, "expected an error result")
	var body errorBody
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &body))
	require.Equal(t, "error", body.Status)
	return body
}

func TestExpenseLifecycle(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAddExpense(ctx, toolRequest("add_expense", map[string]any{
		"date":        "2024-01-15",
		"amount":      45.99,
		"category":    "food",
		"subcategory": "dining_out",
		"note":        "Lunch",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.JSONEq(t, `{"status":"ok","id":1}`, resultText(t, res))

	res, err = s.handleListExpenses(ctx, toolRequest("list_expenses", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	}))
	require.NoError(t, err)
	var records []core.Record
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &records))
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, "2024-01-15", records[0].Date.String())
	assert.Equal(t, int64(4599), records[0].Amount.Cents)
	assert.Equal(t, "food", records[0].Category)
	assert.Equal(t, "dining_out", records[0].Subcategory)
	assert.Equal(t, "Lunch", records[0].Note)

	res, err = s.handleSummarizeExpenses(ctx, toolRequest("summarize", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"food":45.99}`, resultText(t, res))

	res, err = s.handleEditExpense(ctx, toolRequest("edit_expense", map[string]any{
		"id":     float64(1),
		"amount": 55.99,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	var edited struct {
		Status string      `json:"status"`
		Record core.Record `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &edited))
	assert.Equal(t, "ok", edited.Status)
	assert.Equal(t, int64(5599), edited.Record.Amount.Cents)
	assert.Equal(t, "food", edited.Record.Category)
	assert.Equal(t, "Lunch", edited.Record.Note)

	res, err = s.handleSummarizeExpenses(ctx, toolRequest("summarize", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"food":55.99}`, resultText(t, res))

	res, err = s.handleDeleteExpense(ctx, toolRequest("delete_expense", map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","deleted":true,"id":1}`, resultText(t, res))

	res, err = s.handleListExpenses(ctx, toolRequest("list_expenses", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	}))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, res))

	res, err = s.handleDeleteExpense(ctx, toolRequest("delete_expense", map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	body := decodeError(t, res)
	assert.Equal(t, "not_found", body.Kind)
	assert.Equal(t, "expense with id 1 not found", body.Message)
}

func TestAddExpenseRejectsBadArguments(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		args    map[string]any
		wantMsg string
	}{
		{
			name:    "missing date",
			args:    map[string]any{"amount": 10, "category": "food"},
			wantMsg: `missing required argument "date"`,
		},
		{
			name:    "date wrong type",
			args:    map[string]any{"date": 20240115, "amount": 10, "category": "food"},
			wantMsg: `argument "date" must be a string`,
		},
		{
			name:    "malformed date",
			args:    map[string]any{"date": "15/01/2024", "amount": 10, "category": "food"},
			wantMsg: "invalid date",
		},
		{
			name:    "missing amount",
			args:    map[string]any{"date": "2024-01-15", "category": "food"},
			wantMsg: `missing required argument "amount"`,
		},
		{
			name:    "negative amount",
			args:    map[string]any{"date": "2024-01-15", "amount": -5, "category": "food"},
			wantMsg: "invalid amount",
		},
		{
			name:    "amount wrong type",
			args:    map[string]any{"date": "2024-01-15", "amount": true, "category": "food"},
			wantMsg: `argument "amount": invalid amount`,
		},
		{
			name:    "missing category",
			args:    map[string]any{"date": "2024-01-15", "amount": 10},
			wantMsg: `missing required argument "category"`,
		},
		{
			name:    "unknown category",
			args:    map[string]any{"date": "2024-01-15", "amount": 10, "category": "yachts"},
			wantMsg: `unknown expense category "yachts"`,
		},
		{
			name:    "unknown subcategory",
			args:    map[string]any{"date": "2024-01-15", "amount": 10, "category": "food", "subcategory": "sushi"},
			wantMsg: `unknown subcategory "sushi" for expense category "food"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleAddExpense(ctx, toolRequest("add_expense", tt.args))
			require.NoError(t, err)
			body := decodeError(t, res)
			assert.Equal(t, "validation", body.Kind)
			assert.Contains(t, body.Message, tt.wantMsg)
		})
	}

	// None of the rejected calls left a record behind.
	res, err := s.handleListExpenses(ctx, toolRequest("list_expenses", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2024-12-31",
	}))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, res))
}

func TestEditExpenseArguments(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAddExpense(ctx, toolRequest("add_expense", map[string]any{
		"date":     "2024-01-15",
		"amount":   10,
		"category": "food",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	t.Run("missing id", func(t *testing.T) {
		res, err := s.handleEditExpense(ctx, toolRequest("edit_expense", map[string]any{"note": "x"}))
		require.NoError(t, err)
		body := decodeError(t, res)
		assert.Equal(t, "validation", body.Kind)
		assert.Contains(t, body.Message, `missing required argument "id"`)
	})

	t.Run("fractional id", func(t *testing.T) {
		res, err := s.handleEditExpense(ctx, toolRequest("edit_expense", map[string]any{"id": 1.5, "note": "x"}))
		require.NoError(t, err)
		body := decodeError(t, res)
		assert.Equal(t, "validation", body.Kind)
		assert.Contains(t, body.Message, `argument "id" must be a positive integer`)
	})

	t.Run("no fields", func(t *testing.T) {
		res, err := s.handleEditExpense(ctx, toolRequest("edit_expense", map[string]any{"id": float64(1)}))
		require.NoError(t, err)
		body := decodeError(t, res)
		assert.Equal(t, "validation", body.Kind)
		assert.Contains(t, body.Message, "no fields provided to update")
	})

	t.Run("unknown id", func(t *testing.T) {
		res, err := s.handleEditExpense(ctx, toolRequest("edit_expense", map[string]any{"id": float64(99), "note": "x"}))
		require.NoError(t, err)
		body := decodeError(t, res)
		assert.Equal(t, "not_found", body.Kind)
		assert.Equal(t, "expense with id 99 not found", body.Message)
	})

	t.Run("string id accepted", func(t *testing.T) {
		res, err := s.handleEditExpense(ctx, toolRequest("edit_expense", map[string]any{"id": "1", "note": "groceries run"}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		var edited struct {
			Record core.Record `json:"record"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &edited))
		assert.Equal(t, "groceries run", edited.Record.Note)
	})
}

func TestCreditToolsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAddCredit(ctx, toolRequest("add_credit", map[string]any{
		"date":        "2024-01-31",
		"amount":      1200.00,
		"category":    "salary",
		"subcategory": "base",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.JSONEq(t, `{"status":"ok","id":1}`, resultText(t, res))

	res, err = s.handleSummarizeCredits(ctx, toolRequest("summarize_credits", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"salary":1200.00}`, resultText(t, res))

	// The expense ledger never sees credit records.
	res, err = s.handleSummarizeExpenses(ctx, toolRequest("summarize", map[string]any{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	}))
	require.NoError(t, err)
	assert.Equal(t, "{}", resultText(t, res))

	res, err = s.handleDeleteExpense(ctx, toolRequest("delete_expense", map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	body := decodeError(t, res)
	assert.Equal(t, "not_found", body.Kind)
}

func TestSummarizeValidation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	t.Run("inverted range", func(t *testing.T) {
		res, err := s.handleSummarizeExpenses(ctx, toolRequest("summarize", map[string]any{
			"start_date": "2024-02-01",
			"end_date":   "2024-01-01",
		}))
		require.NoError(t, err)
		body := decodeError(t, res)
		assert.Equal(t, "validation", body.Kind)
		assert.Contains(t, body.Message, "start_date is after end_date")
	})

	t.Run("unknown filter category", func(t *testing.T) {
		res, err := s.handleSummarizeExpenses(ctx, toolRequest("summarize", map[string]any{
			"start_date": "2024-01-01",
			"end_date":   "2024-01-31",
			"category":   "yachts",
		}))
		require.NoError(t, err)
		body := decodeError(t, res)
		assert.Equal(t, "validation", body.Kind)
		assert.Contains(t, body.Message, `unknown expense category "yachts"`)
	})

	t.Run("valid filter with no records", func(t *testing.T) {
		res, err := s.handleSummarizeExpenses(ctx, toolRequest("summarize", map[string]any{
			"start_date": "2024-01-01",
			"end_date":   "2024-01-31",
			"category":   "food",
		}))
		require.NoError(t, err)
		assert.Equal(t, "{}", resultText(t, res))
	})
}

func TestCategoriesToolAndResource(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleCategories(ctx, toolRequest("categories", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var snapshot map[string]map[string][]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &snapshot))
	require.Contains(t, snapshot, "expense")
	require.Contains(t, snapshot, "credit")
	assert.Contains(t, snapshot["expense"]["food"], "dining_out")
	assert.Contains(t, snapshot["credit"]["salary"], "base")

	contents, err := s.handleCategoriesResource(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	trc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "expected text resource contents, got %T", contents[0])
	assert.Equal(t, CategoriesURI, trc.URI)
	assert.Equal(t, "application/json", trc.MIMEType)

	var fromResource map[string]map[string][]string
	require.NoError(t, json.Unmarshal([]byte(trc.Text), &fromResource))
	assert.Equal(t, snapshot, fromResource)
}
