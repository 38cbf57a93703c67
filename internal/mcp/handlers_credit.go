package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"tally/internal/core"
)

func (s *Server) registerCreditTools() {
	s.mcp.AddTool(mcp.NewTool("add_credit",
		mcp.WithDescription("Record a new credit (incoming money). The category (and subcategory, if given) must come from the categories tool. Returns the id of the new record."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date of the credit in YYYY-MM-DD format.")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Non-negative amount received. At most two decimal places are kept.")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Credit category name.")),
		mcp.WithString("subcategory", mcp.Description("Optional subcategory of the chosen category.")),
		mcp.WithString("note", mcp.Description("Optional free-text note.")),
	), s.handleAddCredit)

	s.mcp.AddTool(mcp.NewTool("list_credits",
		mcp.WithDescription("List credits with a date inside the inclusive range, ordered by date then id."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("First date of the range, YYYY-MM-DD.")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("Last date of the range, YYYY-MM-DD.")),
	), s.handleListCredits)

	s.mcp.AddTool(mcp.NewTool("edit_credit",
		mcp.WithDescription("Update one or more fields of an existing credit. Omitted fields keep their current value. Returns the updated record."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Id of the credit to update.")),
		mcp.WithString("date", mcp.Description("New date, YYYY-MM-DD.")),
		mcp.WithNumber("amount", mcp.Description("New non-negative amount.")),
		mcp.WithString("category", mcp.Description("New category name.")),
		mcp.WithString("subcategory", mcp.Description("New subcategory. Pass an empty string to clear it.")),
		mcp.WithString("note", mcp.Description("New note. Pass an empty string to clear it.")),
	), s.handleEditCredit)

	s.mcp.AddTool(mcp.NewTool("delete_credit",
		mcp.WithDescription("Permanently delete a credit by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Id of the credit to delete.")),
	), s.handleDeleteCredit)

	s.mcp.AddTool(mcp.NewTool("summarize_credits",
		mcp.WithDescription("Total credits per category over an inclusive date range. Returns a category-to-total map; categories without credits in the range are omitted."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("First date of the range, YYYY-MM-DD.")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("Last date of the range, YYYY-MM-DD.")),
		mcp.WithString("category", mcp.Description("Optional category to restrict the summary to.")),
	), s.handleSummarizeCredits)
}

func (s *Server) handleAddCredit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleAdd(ctx, core.KindCredit, req)
}

func (s *Server) handleListCredits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleList(ctx, core.KindCredit, req)
}

func (s *Server) handleEditCredit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleEdit(ctx, core.KindCredit, req)
}

func (s *Server) handleDeleteCredit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleDelete(ctx, core.KindCredit, req)
}

func (s *Server) handleSummarizeCredits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleSummarize(ctx, core.KindCredit, req)
}
