package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"tally/internal/core"
)

func (s *Server) registerExpenseTools() {
	s.mcp.AddTool(mcp.NewTool("add_expense",
		mcp.WithDescription("Record a new expense. The category (and subcategory, if given) must come from the categories tool. Returns the id of the new record."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date of the expense in YYYY-MM-DD format.")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Non-negative amount spent. At most two decimal places are kept.")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Expense category name.")),
		mcp.WithString("subcategory", mcp.Description("Optional subcategory of the chosen category.")),
		mcp.WithString("note", mcp.Description("Optional free-text note.")),
	), s.handleAddExpense)

	s.mcp.AddTool(mcp.NewTool("list_expenses",
		mcp.WithDescription("List expenses with a date inside the inclusive range, ordered by date then id."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("First date of the range, YYYY-MM-DD.")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("Last date of the range, YYYY-MM-DD.")),
	), s.handleListExpenses)

	s.mcp.AddTool(mcp.NewTool("edit_expense",
		mcp.WithDescription("Update one or more fields of an existing expense. Omitted fields keep their current value. Returns the updated record."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Id of the expense to update.")),
		mcp.WithString("date", mcp.Description("New date, YYYY-MM-DD.")),
		mcp.WithNumber("amount", mcp.Description("New non-negative amount.")),
		mcp.WithString("category", mcp.Description("New category name.")),
		mcp.WithString("subcategory", mcp.Description("New subcategory. Pass an empty string to clear it.")),
		mcp.WithString("note", mcp.Description("New note. Pass an empty string to clear it.")),
	), s.handleEditExpense)

	s.mcp.AddTool(mcp.NewTool("delete_expense",
		mcp.WithDescription("Permanently delete an expense by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Id of the expense to delete.")),
	), s.handleDeleteExpense)

	s.mcp.AddTool(mcp.NewTool("summarize",
		mcp.WithDescription("Total expenses per category over an inclusive date range. Returns a category-to-total map; categories without expenses in the range are omitted."),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("First date of the range, YYYY-MM-DD.")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("Last date of the range, YYYY-MM-DD.")),
		mcp.WithString("category", mcp.Description("Optional category to restrict the summary to.")),
	), s.handleSummarizeExpenses)
}

func (s *Server) handleAddExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleAdd(ctx, core.KindExpense, req)
}

func (s *Server) handleListExpenses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleList(ctx, core.KindExpense, req)
}

func (s *Server) handleEditExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleEdit(ctx, core.KindExpense, req)
}

func (s *Server) handleDeleteExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleDelete(ctx, core.KindExpense, req)
}

func (s *Server) handleSummarizeExpenses(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleSummarize(ctx, core.KindExpense, req)
}
