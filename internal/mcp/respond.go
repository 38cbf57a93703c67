package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"tally/internal/core"
)

// Error kinds reported in structured error payloads.
const (
	errKindValidation = "validation"
	errKindNotFound   = "not_found"
	errKindStore      = "store"
	errKindInternal   = "internal"
)

type errorPayload struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type addPayload struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

type editPayload struct {
	Status string      `json:"status"`
	Record core.Record `json:"record"`
}

type deletePayload struct {
	Status  string `json:"status"`
	Deleted bool   `json:"deleted"`
	ID      int64  `json:"id"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func okAdd(id int64) (*mcp.CallToolResult, error) {
	return jsonResult(addPayload{Status: "ok", ID: id})
}

func okEdit(r core.Record) (*mcp.CallToolResult, error) {
	return jsonResult(editPayload{Status: "ok", Record: r})
}

func okDelete(id int64) (*mcp.CallToolResult, error) {
	return jsonResult(deletePayload{Status: "ok", Deleted: true, ID: id})
}

func errorKind(err error) string {
	switch {
	case core.IsValidation(err):
		return errKindValidation
	case core.IsNotFound(err):
		return errKindNotFound
	case core.IsStore(err):
		return errKindStore
	default:
		return errKindInternal
	}
}

// errorResult shapes a failure into the structured error payload. The
// protocol call itself still succeeds; only the result carries the error.
func errorResult(err error) *mcp.CallToolResult {
	payload := errorPayload{Status: "error", Kind: errorKind(err), Message: err.Error()}
	b, merr := json.Marshal(payload)
	if merr != nil {
		return mcp.NewToolResultError(fmt.Sprintf(`{"status":"error","kind":"internal","message":%q}`, err.Error()))
	}
	return mcp.NewToolResultError(string(b))
}

// resultErrorKind recovers the error kind from a finished result so the
// logging middleware can report it without re-running classification.
func resultErrorKind(res *mcp.CallToolResult) string {
	if res == nil || !res.IsError || len(res.Content) == 0 {
		return ""
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		return errKindInternal
	}
	var payload errorPayload
	if err := json.Unmarshal([]byte(tc.Text), &payload); err != nil || payload.Kind == "" {
		return errKindInternal
	}
	return payload.Kind
}
