package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func rpcCall(t *testing.T, s *Server, raw string) rpcResponse {
	t.Helper()
	msg := s.HandleMessage(context.Background(), []byte(raw))
	require.NotNil(t, msg)
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	var resp rpcResponse
	require.NoError(t, json.Unmarshal(b, &resp))
	require.Equal(t, "2.0", resp.JSONRPC)
	return resp
}

// Drives the server through raw JSON-RPC, the same path both transports
// use, so tool registration, middleware, and the resource all get covered.
func TestServerOverJSONRPC(t *testing.T) {
	s := newTestServer(t)

	resp := rpcCall(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"tester","version":"0.0.0"}}}`)
	require.Nil(t, resp.Error)
	var initRes struct {
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &initRes))
	assert.Equal(t, serverName, initRes.ServerInfo.Name)
	assert.Equal(t, Version, initRes.ServerInfo.Version)

	resp = rpcCall(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, resp.Error)
	var toolList struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &toolList))
	names := make(map[string]bool, len(toolList.Tools))
	for _, tool := range toolList.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"add_expense", "list_expenses", "edit_expense", "delete_expense", "summarize",
		"add_credit", "list_credits", "edit_credit", "delete_credit", "summarize_credits",
		"categories",
	} {
		assert.True(t, names[want], "tool %q not registered", want)
	}
	assert.Len(t, toolList.Tools, 11)

	resp = rpcCall(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"add_expense","arguments":{"date":"2024-01-15","amount":45.99,"category":"food","subcategory":"dining_out","note":"Lunch"}}}`)
	require.Nil(t, resp.Error)
	var callRes struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &callRes))
	require.False(t, callRes.IsError)
	require.NotEmpty(t, callRes.Content)
	assert.JSONEq(t, `{"status":"ok","id":1}`, callRes.Content[0].Text)

	// Domain failures surface as structured payloads, never JSON-RPC errors.
	resp = rpcCall(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"delete_expense","arguments":{"id":42}}}`)
	require.Nil(t, resp.Error)
	require.NoError(t, json.Unmarshal(resp.Result, &callRes))
	require.True(t, callRes.IsError)
	require.NotEmpty(t, callRes.Content)
	assert.JSONEq(t, `{"status":"error","kind":"not_found","message":"expense with id 42 not found"}`, callRes.Content[0].Text)

	resp = rpcCall(t, s, `{"jsonrpc":"2.0","id":5,"method":"resources/read","params":{"uri":"expense://categories"}}`)
	require.Nil(t, resp.Error)
	var readRes struct {
		Contents []struct {
			URI      string `json:"uri"`
			MIMEType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &readRes))
	require.Len(t, readRes.Contents, 1)
	assert.Equal(t, CategoriesURI, readRes.Contents[0].URI)
	assert.Equal(t, "application/json", readRes.Contents[0].MIMEType)
	assert.Contains(t, readRes.Contents[0].Text, "dining_out")

	// Only the two tool calls passed through the middleware.
	m := s.Metrics()
	assert.Equal(t, int64(2), m.TotalCalls)
}
