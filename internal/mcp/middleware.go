package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tally/internal/log"
	"tally/internal/middleware/trace"
)

// traceMiddleware tags every tool call with a call id, logs start and end,
// and feeds the duration recorder. The call id rides the context so every
// layer below logs under the same id.
func (s *Server) traceMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := trace.NewCallID()
		ctx = trace.WithCallID(ctx, callID)
		ctx = log.WithLogger(ctx, s.logger.With(log.FieldCallID, callID))

		tool := req.Params.Name
		s.toolLog.LogToolStart(ctx, tool, callID)

		start := time.Now()
		res, err := next(ctx, req)
		durationMs := time.Since(start).Milliseconds()
		s.recorder.Observe(durationMs)

		errKind := ""
		switch {
		case err != nil:
			errKind = errKindInternal
		default:
			errKind = resultErrorKind(res)
		}
		s.toolLog.LogToolEnd(ctx, tool, callID, durationMs, errKind)

		return res, err
	}
}
