package core

// Summary maps category names to exact totals. It marshals as a JSON
// object; encoding/json sorts the keys, which yields the category-ascending
// order callers see.
type Summary map[string]Money

// SummaryFromCents lifts raw per-category cent totals into a Summary.
func SummaryFromCents(totals map[string]int64) Summary {
	s := make(Summary, len(totals))
	for category, cents := range totals {
		s[category] = MoneyFromCents(cents)
	}
	return s
}

// Total sums every category in the summary.
func (s Summary) Total() Money {
	var total Money
	for _, amount := range s {
		total = total.Add(amount)
	}
	return total
}
