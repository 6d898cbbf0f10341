package storage

import (
	"context"
	"errors"

	"expenselog/internal/core"
)

// ErrNotFound is returned when no expense has the requested id.
var ErrNotFound = errors.New("expense not found")

// Ports for storage adapters.
type (
	// ExpenseLister returns every stored expense, newest id first.
	ExpenseLister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	ExpenseReader interface {
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
	}

	// ExpenseWriter mutates stored expenses. UpdateExpense is a no-op when the id is absent.
	ExpenseWriter interface {
		InsertExpense(ctx context.Context, e core.Expense) (id int64, err error)
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id int64) error
	}

	// ExpenseStore is everything the expense service needs from storage.
	ExpenseStore interface {
		ExpenseLister
		ExpenseReader
		ExpenseWriter
	}
)
