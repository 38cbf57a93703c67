package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"tally/internal/core"
)

// The handlers below are kind-generic; the expense and credit tool files
// bind them to a concrete ledger.

func (s *Server) handleAdd(ctx context.Context, kind core.Kind, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsFrom(req)

	date, err := args.requireDate("date")
	if err != nil {
		return errorResult(err), nil
	}
	amount, err := args.requireAmount("amount")
	if err != nil {
		return errorResult(err), nil
	}
	category, err := args.requireString("category")
	if err != nil {
		return errorResult(err), nil
	}
	subcategory, err := args.stringOr("subcategory", "")
	if err != nil {
		return errorResult(err), nil
	}
	note, err := args.stringOr("note", "")
	if err != nil {
		return errorResult(err), nil
	}

	id, err := s.ledger.Add(ctx, kind, core.Record{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Subcategory: subcategory,
		Note:        note,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return okAdd(id)
}

func (s *Server) handleList(ctx context.Context, kind core.Kind, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsFrom(req)

	start, err := args.requireDate("start_date")
	if err != nil {
		return errorResult(err), nil
	}
	end, err := args.requireDate("end_date")
	if err != nil {
		return errorResult(err), nil
	}

	records, err := s.ledger.List(ctx, kind, core.DateRange{Start: start, End: end})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(records)
}

func (s *Server) handleEdit(ctx context.Context, kind core.Kind, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsFrom(req)

	id, err := args.requireID("id")
	if err != nil {
		return errorResult(err), nil
	}

	var update core.RecordUpdate
	if update.Date, err = args.optionalDate("date"); err != nil {
		return errorResult(err), nil
	}
	if update.Amount, err = args.optionalAmount("amount"); err != nil {
		return errorResult(err), nil
	}
	if update.Category, err = args.optionalString("category"); err != nil {
		return errorResult(err), nil
	}
	if update.Subcategory, err = args.optionalString("subcategory"); err != nil {
		return errorResult(err), nil
	}
	if update.Note, err = args.optionalString("note"); err != nil {
		return errorResult(err), nil
	}

	record, err := s.ledger.Edit(ctx, kind, id, update)
	if err != nil {
		return errorResult(err), nil
	}
	return okEdit(record)
}

func (s *Server) handleDelete(ctx context.Context, kind core.Kind, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := argsFrom(req).requireID("id")
	if err != nil {
		return errorResult(err), nil
	}
	if err := s.ledger.Delete(ctx, kind, id); err != nil {
		return errorResult(err), nil
	}
	return okDelete(id)
}

func (s *Server) handleSummarize(ctx context.Context, kind core.Kind, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsFrom(req)

	start, err := args.requireDate("start_date")
	if err != nil {
		return errorResult(err), nil
	}
	end, err := args.requireDate("end_date")
	if err != nil {
		return errorResult(err), nil
	}
	category, err := args.stringOr("category", "")
	if err != nil {
		return errorResult(err), nil
	}

	summary, err := s.ledger.Summarize(ctx, kind, core.DateRange{Start: start, End: end}, category)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(summary)
}
