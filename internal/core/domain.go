package core

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates. Dates
// rendered in this layout compare lexicographically in chronological order.
const DateLayout = "2006-01-02"

const (
	KindExpense Kind = "expense"
	KindCredit  Kind = "credit"
)

type (
	// Kind selects one of the two record ledgers.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Record is a single ledger entry. Expenses and credits share the shape.
	Record struct {
		ID          int64  `json:"id"`
		Date        Date   `json:"date"`
		Amount      Money  `json:"amount"`
		Category    string `json:"category"`
		Subcategory string `json:"subcategory"`
		Note        string `json:"note"`
	}

	// RecordUpdate carries a partial update. Nil fields are left untouched.
	RecordUpdate struct {
		Date        *Date
		Amount      *Money
		Category    *string
		Subcategory *string
		Note        *string
	}

	// DateRange is an inclusive [Start, End] window.
	DateRange struct {
		Start Date
		End   Date
	}
)

var (
	ErrInvalidDate   = NewValidationError("invalid date, expected YYYY-MM-DD")
	ErrInvalidAmount = NewValidationError("invalid amount")
	ErrEmptyCategory = NewValidationError("empty category")
	ErrInvalidRange  = NewValidationError("invalid date range: start_date is after end_date")
	ErrEmptyUpdate   = NewValidationError("no fields provided to update")
)

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindCredit
}

func (k Kind) String() string {
	return string(k)
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// IsEmpty reports whether the update would change nothing.
func (u RecordUpdate) IsEmpty() bool {
	return u.Date == nil && u.Amount == nil && u.Category == nil && u.Subcategory == nil && u.Note == nil
}

func (u RecordUpdate) Validate() error {
	if u.IsEmpty() {
		return ErrEmptyUpdate
	}
	if u.Date != nil {
		if err := u.Date.Validate(); err != nil {
			return err
		}
	}
	if u.Amount != nil {
		if err := u.Amount.Validate(); err != nil {
			return err
		}
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func NewDateRange(start, end Date) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return err
	}
	if err := r.End.Validate(); err != nil {
		return err
	}
	if r.Start.Time.After(r.End.Time) {
		return ErrInvalidRange
	}
	return nil
}
