package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldCallID      = "call_id"
	FieldTool        = "tool"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldErrorKind   = "error_kind"
	FieldOperation   = "operation"
	FieldKind        = "kind"
	FieldRecordID    = "record_id"
	FieldAmountCents = "amount_cents"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldDate        = "date"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentMCP     = "mcp"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentCatalog = "catalog"
	ComponentCache   = "cache"
	ComponentTrace   = "trace"
)

// Operations defines standard operation names
const (
	OpAdd       = "add"
	OpList      = "list"
	OpEdit      = "edit"
	OpDelete    = "delete"
	OpSummarize = "summarize"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithCallID adds the tool-call trace id
func (f LogFields) WithCallID(callID string) LogFields {
	f[FieldCallID] = callID
	return f
}

// WithTool adds the tool name
func (f LogFields) WithTool(tool string) LogFields {
	f[FieldTool] = tool
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithKind adds the record kind
func (f LogFields) WithKind(kind string) LogFields {
	f[FieldKind] = kind
	return f
}

// WithRecord adds record-related fields
func (f LogFields) WithRecord(id int64, amountCents int64, category string) LogFields {
	f[FieldRecordID] = id
	f[FieldAmountCents] = amountCents
	f[FieldCategory] = category
	return f
}

// WithRange adds date range fields
func (f LogFields) WithRange(start, end string) LogFields {
	f[FieldStartDate] = start
	f[FieldEndDate] = end
	return f
}

// WithToolResult adds tool completion fields
func (f LogFields) WithToolResult(durationMs int64, success bool) LogFields {
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
