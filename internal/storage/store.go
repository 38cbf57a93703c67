// Package storage persists expense and credit records in an embedded
// SQLite database. Both kinds share one schema and live in separate
// tables; all amounts are stored as integer cents.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One connection serializes every statement; SQLite permits a single
	// writer at a time anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// tableFor maps a kind to its table. Only these two names ever reach the
// SQL text.
func tableFor(kind core.Kind) (string, error) {
	switch kind {
	case core.KindExpense:
		return "expenses", nil
	case core.KindCredit:
		return "credits", nil
	default:
		return "", core.NewStoreError("resolve table", fmt.Errorf("unknown kind %q", kind))
	}
}

// Insert persists one record and returns its assigned id. Ids are
// auto-incremented per kind and never reused after deletion.
func (s *SQLiteStore) Insert(ctx context.Context, kind core.Kind, r core.Record) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (date, amount_cents, category, subcategory, note) VALUES (?, ?, ?, ?, ?)",
		table)
	res, err := s.db.ExecContext(ctx, query,
		r.Date.String(), r.Amount.Cents, r.Category, r.Subcategory, r.Note)
	if err != nil {
		return 0, core.NewStoreError("insert "+kind.String(), err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, core.NewStoreError("read inserted id", err)
	}

	slog.InfoContext(ctx, "Record saved",
		"kind", kind.String(),
		"id", id,
		"date", r.Date.String(),
		"amount_cents", r.Amount.Cents,
		"category", r.Category)

	return id, nil
}

// Get returns a single record by id.
func (s *SQLiteStore) Get(ctx context.Context, kind core.Kind, id int64) (core.Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return core.Record{}, err
	}

	query := fmt.Sprintf(
		"SELECT id, date, amount_cents, category, subcategory, note FROM %s WHERE id = ?",
		table)
	return s.scanRecord(kind, s.db.QueryRowContext(ctx, query, id), id)
}

// ListRange returns every record with date inside the inclusive range,
// ordered by date ascending with id ascending as tiebreak.
func (s *SQLiteStore) ListRange(ctx context.Context, kind core.Kind, rng core.DateRange) ([]core.Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, date, amount_cents, category, subcategory, note
		FROM %s
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC, id ASC`, table)
	rows, err := s.db.QueryContext(ctx, query, rng.Start.String(), rng.End.String())
	if err != nil {
		return nil, core.NewStoreError("list "+kind.String(), err)
	}
	defer rows.Close()

	records := make([]core.Record, 0)
	for rows.Next() {
		var (
			r       core.Record
			rawDate string
			cents   int64
		)
		if err := rows.Scan(&r.ID, &rawDate, &cents, &r.Category, &r.Subcategory, &r.Note); err != nil {
			return nil, core.NewStoreError("scan "+kind.String(), err)
		}
		date, err := core.ParseDate(rawDate)
		if err != nil {
			return nil, core.NewStoreError("parse stored date", fmt.Errorf("id %d: %q", r.ID, rawDate))
		}
		r.Date = date
		r.Amount = core.MoneyFromCents(cents)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreError("iterate "+kind.String(), err)
	}
	return records, nil
}

// Update applies a partial update inside a transaction and returns the
// record as stored afterwards.
func (s *SQLiteStore) Update(ctx context.Context, kind core.Kind, id int64, u core.RecordUpdate) (core.Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return core.Record{}, err
	}

	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if u.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, u.Date.String())
	}
	if u.Amount != nil {
		sets = append(sets, "amount_cents = ?")
		args = append(args, u.Amount.Cents)
	}
	if u.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *u.Category)
	}
	if u.Subcategory != nil {
		sets = append(sets, "subcategory = ?")
		args = append(args, *u.Subcategory)
	}
	if u.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *u.Note)
	}
	if len(sets) == 0 {
		return core.Record{}, core.ErrEmptyUpdate
	}
	args = append(args, id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Record{}, core.NewStoreError("begin update", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return core.Record{}, core.NewStoreError("update "+kind.String(), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Record{}, core.NewStoreError("count updated rows", err)
	}
	if affected == 0 {
		return core.Record{}, core.NewNotFoundError(kind, id)
	}

	selectQuery := fmt.Sprintf(
		"SELECT id, date, amount_cents, category, subcategory, note FROM %s WHERE id = ?",
		table)
	updated, err := s.scanRecord(kind, tx.QueryRowContext(ctx, selectQuery, id), id)
	if err != nil {
		return core.Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Record{}, core.NewStoreError("commit update", err)
	}

	slog.InfoContext(ctx, "Record updated",
		"kind", kind.String(),
		"id", id,
		"fields", len(sets))

	return updated, nil
}

// Delete removes a record permanently. Deleting an absent id reports
// NotFoundError.
func (s *SQLiteStore) Delete(ctx context.Context, kind core.Kind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return core.NewStoreError("delete "+kind.String(), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.NewStoreError("count deleted rows", err)
	}
	if affected == 0 {
		return core.NewNotFoundError(kind, id)
	}

	slog.InfoContext(ctx, "Record deleted", "kind", kind.String(), "id", id)
	return nil
}

// SummarizeRange sums amounts per category over the inclusive range.
// An empty category matches every category; totals stay integer cents the
// whole way, so grouping is exact.
func (s *SQLiteStore) SummarizeRange(ctx context.Context, kind core.Kind, rng core.DateRange, category string) (map[string]int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT category, SUM(amount_cents) AS total_cents
		FROM %s
		WHERE date BETWEEN ? AND ?`, table)
	args := []any{rng.Start.String(), rng.End.String()}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " GROUP BY category ORDER BY category ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.NewStoreError("summarize "+kind.String(), err)
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return nil, core.NewStoreError("scan summary", err)
		}
		totals[name] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStoreError("iterate summary", err)
	}
	return totals, nil
}

// Count returns the number of stored records for a kind.
func (s *SQLiteStore) Count(ctx context.Context, kind core.Kind) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, core.NewStoreError("count "+kind.String(), err)
	}
	return n, nil
}

func (s *SQLiteStore) scanRecord(kind core.Kind, row *sql.Row, id int64) (core.Record, error) {
	var (
		r       core.Record
		rawDate string
		cents   int64
	)
	err := row.Scan(&r.ID, &rawDate, &cents, &r.Category, &r.Subcategory, &r.Note)
	if err == sql.ErrNoRows {
		return core.Record{}, core.NewNotFoundError(kind, id)
	}
	if err != nil {
		return core.Record{}, core.NewStoreError("get "+kind.String(), err)
	}
	date, err := core.ParseDate(rawDate)
	if err != nil {
		return core.Record{}, core.NewStoreError("parse stored date", fmt.Errorf("id %d: %q", r.ID, rawDate))
	}
	r.Date = date
	r.Amount = core.MoneyFromCents(cents)
	return r, nil
}
