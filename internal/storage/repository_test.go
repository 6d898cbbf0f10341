package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"expenselog/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "expenses.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSQLiteRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.InsertExpense(ctx, core.Expense{Amount: amount("12.5"), Category: "Food", Note: "lunch", Date: "2024-03-15"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := repo.InsertExpense(ctx, core.Expense{Amount: amount("3"), Category: "Books"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if second <= first {
		t.Fatalf("ids should increase: %d then %d", first, second)
	}

	list, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != second || list[1].ID != first {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[1].Note != "lunch" || list[1].Date != "2024-03-15" || !list[1].Amount.Equal(amount("12.5")) {
		t.Fatalf("unexpected stored record %+v", list[1])
	}
	if list[0].Note != "" || list[0].Date != "" {
		t.Fatalf("optional fields should read back empty, got %+v", list[0])
	}

	updated := list[1]
	updated.Amount = amount("20")
	updated.Date = ""
	if err := repo.UpdateExpense(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetExpense(ctx, first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(amount("20")) || got.Date != "" || got.Category != "Food" {
		t.Fatalf("unexpected updated record %+v", got)
	}

	if err := repo.DeleteExpense(ctx, first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteRepositoryUpdateMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	err := repo.UpdateExpense(ctx, core.Expense{ID: 42, Amount: amount("1"), Category: "Food"})
	if err != nil {
		t.Fatalf("update of missing id should be a no-op, got %v", err)
	}
	list, _ := repo.ListExpenses(ctx)
	if len(list) != 0 {
		t.Fatalf("no record should be created, got %+v", list)
	}
}

func TestSQLiteRepositoryRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.InsertExpense(context.Background(), core.Expense{Amount: amount("0"), Category: "Food"})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSQLiteRepositoryRejectsAmountsLostAsReal(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, in := range []string{"1e-400", "1e400"} {
		if _, err := core.FromInput(core.ExpenseInput{Amount: in, Category: "Food"}); !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("%s: expected form to be declined, got %v", in, err)
		}
		_, err := repo.InsertExpense(ctx, core.Expense{Amount: amount(in), Category: "Food"})
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("%s: expected ErrInvalidAmount, got %v", in, err)
		}
	}

	id, err := repo.InsertExpense(ctx, core.Expense{Amount: amount("0.01"), Category: "Food"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := repo.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := got.Validate(); err != nil || !got.Amount.Equal(amount("0.01")) {
		t.Fatalf("stored record should read back valid, got %+v (err=%v)", got, err)
	}

	list, _ := repo.ListExpenses(ctx)
	if len(list) != 1 {
		t.Fatalf("declined amounts should not be stored, got %+v", list)
	}
}

func createLegacyDB(t *testing.T, schema string, inserts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open legacy db: %v", err)
	}
	defer db.Close()
	for _, stmt := range append([]string{schema}, inserts...) {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

func TestSQLiteRepositoryUpgradesDatelessSchema(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE expenses (id INTEGER PRIMARY KEY AUTOINCREMENT, amount REAL NOT NULL, category TEXT NOT NULL, note TEXT)`,
		`INSERT INTO expenses (amount, category, note) VALUES (4.5, 'Food', 'old')`,
	)
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	list, err := repo.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Note != "old" || list[0].Date != "" || !list[0].Amount.Equal(amount("4.5")) {
		t.Fatalf("legacy row not preserved: %+v", list)
	}
	if _, err := repo.InsertExpense(ctx, core.Expense{Amount: amount("1"), Category: "Food", Date: "2024-03-15"}); err != nil {
		t.Fatalf("insert after upgrade: %v", err)
	}
}

func TestSQLiteRepositoryToleratesUntrackedDateColumn(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE expenses (id INTEGER PRIMARY KEY AUTOINCREMENT, amount REAL NOT NULL, category TEXT NOT NULL, note TEXT, date TEXT)`,
		`INSERT INTO expenses (amount, category, note, date) VALUES (2, 'Rent', NULL, '2024-03-01')`,
	)
	for i := 0; i < 2; i++ {
		repo, err := NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		list, err := repo.ListExpenses(context.Background())
		repo.Close()
		if err != nil {
			t.Fatalf("list %d: %v", i, err)
		}
		if len(list) != 1 || list[0].Date != "2024-03-01" {
			t.Fatalf("open %d: unexpected rows %+v", i, list)
		}
	}
}
