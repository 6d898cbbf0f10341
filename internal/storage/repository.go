package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expenselog/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	// Migration problems never stop the app: the schema is reconciled by
	// hand and anything still wrong surfaces on the first query.
	if err := RunMigrations(dbPath); err != nil {
		slog.Warn("Schema migration failed, checking expenses table directly", "error", err, "path", dbPath)
		if err := ensureSchema(context.Background(), repo.queries); err != nil {
			slog.Warn("Schema check failed, continuing", "error", err, "path", dbPath)
		}
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListExpenses implements ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]core.Expense, len(rows))
	for i, row := range rows {
		expenses[i] = toCore(row)
	}
	return expenses, nil
}

// GetExpense implements ExpenseReader
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return toCore(row), nil
}

// InsertExpense implements ExpenseWriter
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Amount:   e.Amount.InexactFloat64(),
		Category: e.Category,
		Note:     nullString(e.Note),
		Date:     nullString(e.Date),
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"amount", e.Amount.String(),
		"category", e.Category,
		"date", e.Date)

	return id, nil
}

// UpdateExpense implements ExpenseWriter
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	n, err := r.queries.UpdateExpense(ctx, UpdateExpenseParams{
		Amount:   e.Amount.InexactFloat64(),
		Category: e.Category,
		Note:     nullString(e.Note),
		Date:     nullString(e.Date),
		ID:       e.ID,
	})
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if n == 0 {
		slog.DebugContext(ctx, "Update matched no expense", "id", e.ID)
		return nil
	}

	slog.InfoContext(ctx, "Expense updated in SQLite", "id", e.ID)
	return nil
}

// DeleteExpense implements ExpenseWriter
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	if err := r.queries.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

func toCore(row Expense) core.Expense {
	e := core.Expense{
		ID:       row.ID,
		Category: row.Category,
		Note:     row.Note.String,
	}
	if row.Amount.Valid {
		e.Amount = core.AmountFromFloat(row.Amount.Float64)
	}
	if row.Date.Valid && core.IsCanonicalDate(row.Date.String) {
		e.Date = row.Date.String
	}
	return e
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
