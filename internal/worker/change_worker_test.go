package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expenselog/internal/amqp"
	"expenselog/internal/core"
	"expenselog/internal/storage/memory"
)

type failingLister struct{}

func (failingLister) ListExpenses(context.Context) ([]core.Expense, error) {
	return nil, errors.New("database is locked")
}

func clock() time.Time {
	return time.Date(2024, 3, 13, 15, 30, 0, 0, time.Local)
}

func TestRecompute(t *testing.T) {
	store := memory.New(
		core.Expense{Amount: decimal.NewFromInt(20), Category: "Food", Date: "2024-03-11"},
		core.Expense{Amount: decimal.NewFromInt(5), Category: "Books", Date: "2024-03-02"},
		core.Expense{Amount: decimal.NewFromInt(9), Category: "Rent", Date: "2023-12-24"},
		core.Expense{Amount: decimal.NewFromInt(1), Category: "Food"},
	)
	w := NewChangeWorker(store, "", clock)

	got, err := w.Recompute(context.Background())
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}

	want := map[core.FilterMode]string{
		core.FilterAll:   "$35.00",
		core.FilterWeek:  "$20.00",
		core.FilterMonth: "$25.00",
	}
	for mode, sum := range want {
		if got[mode].Sum != sum {
			t.Errorf("%s sum = %q, want %q", mode, got[mode].Sum, sum)
		}
	}
}

func TestHandleChangeMessage(t *testing.T) {
	ctx := context.Background()
	msg := amqp.NewExpenseChangedMessage(amqp.OperationCreate, 1)

	ok := NewChangeWorker(memory.New(), "EUR", clock)
	if err := ok.HandleChangeMessage(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	failing := NewChangeWorker(failingLister{}, "USD", clock)
	if err := failing.HandleChangeMessage(ctx, msg); err == nil {
		t.Fatal("storage errors should be returned so the message is requeued")
	}
}
