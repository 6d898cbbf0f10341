package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"expenselog/internal/amqp"
	"expenselog/internal/core"
	"expenselog/internal/storage"
)

var modes = []core.FilterMode{core.FilterAll, core.FilterWeek, core.FilterMonth}

// ChangeWorker recomputes the summaries after every change to the expense log.
type ChangeWorker struct {
	storage  storage.ExpenseLister
	now      func() time.Time
	currency string
}

func NewChangeWorker(storage storage.ExpenseLister, currency string, now func() time.Time) *ChangeWorker {
	if now == nil {
		now = time.Now
	}
	if currency == "" {
		currency = core.DefaultCurrency
	}
	return &ChangeWorker{
		storage:  storage,
		now:      now,
		currency: currency,
	}
}

// HandleChangeMessage reloads every record and logs the totals for each filter.
// An error asks the consumer to requeue the message.
func (w *ChangeWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ExpenseChangedMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"message_id", msg.MessageID,
		"operation", msg.Operation,
		"expense_id", msg.ExpenseID)

	if _, err := w.Recompute(ctx); err != nil {
		return fmt.Errorf("recompute after %s of expense %d: %w", msg.Operation, msg.ExpenseID, err)
	}
	return nil
}

// Recompute summarizes the stored records once per filter mode.
func (w *ChangeWorker) Recompute(ctx context.Context) (map[core.FilterMode]core.Summary, error) {
	records, err := w.storage.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload expenses: %w", err)
	}

	now := w.now()
	out := make(map[core.FilterMode]core.Summary, len(modes))
	for _, mode := range modes {
		s := core.Summarize(records, mode, now, w.currency)
		out[mode] = s
		slog.InfoContext(ctx, "Summary recomputed",
			"filter", mode,
			"records", len(s.Records),
			"sum", s.Sum,
			"categories", len(s.ByCategory),
			"days", len(s.Daily))
	}
	return out, nil
}
