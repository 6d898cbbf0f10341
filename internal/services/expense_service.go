package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"expenselog/internal/amqp"
	"expenselog/internal/chart"
	"expenselog/internal/core"
	"expenselog/internal/storage"
)

// Publisher announces expense changes to other processes.
type Publisher interface {
	PublishExpenseChanged(ctx context.Context, op amqp.Operation, expenseID int64) error
}

// Clock returns the reference instant for week and month classification.
type Clock func() time.Time

// ExpenseService runs the form flows against storage and builds view snapshots.
// Every snapshot reloads the full record list; nothing is cached between calls.
type ExpenseService struct {
	storage   storage.ExpenseStore
	publisher Publisher
	now       Clock
	currency  string
}

type Option func(*ExpenseService)

// WithPublisher enables change events. A nil publisher disables them.
func WithPublisher(p Publisher) Option {
	return func(s *ExpenseService) { s.publisher = p }
}

func WithClock(c Clock) Option {
	return func(s *ExpenseService) {
		if c != nil {
			s.now = c
		}
	}
}

func WithCurrency(code string) Option {
	return func(s *ExpenseService) {
		if code != "" {
			s.currency = code
		}
	}
}

func NewExpenseService(store storage.ExpenseStore, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		storage:  store,
		now:      time.Now,
		currency: core.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitResult reports the outcome of a form submission. A declined submission
// wrote nothing and echoes the input so the form can be shown again.
type SubmitResult struct {
	ID       int64             `json:"id,omitempty"`
	Updated  bool              `json:"updated,omitempty"`
	Declined bool              `json:"declined,omitempty"`
	Reason   string            `json:"reason,omitempty"`
	Input    core.ExpenseInput `json:"input"`
}

// EditForm pre-fills the form for an in-progress edit.
type EditForm struct {
	ID          int64             `json:"id"`
	Input       core.ExpenseInput `json:"input"`
	DatePreview string            `json:"date_preview,omitempty"`
}

// Submit saves the form. When state has an edit in progress the edited record
// is updated and the edit is cleared, otherwise a new record is inserted.
// Invalid amount or category declines the submission without an error.
func (s *ExpenseService) Submit(ctx context.Context, state *core.ViewState, in core.ExpenseInput) (SubmitResult, error) {
	e, err := core.FromInput(in)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrEmptyCategory) {
			slog.InfoContext(ctx, "Submission declined", "reason", err.Error())
			return SubmitResult{Declined: true, Reason: err.Error(), Input: in}, nil
		}
		return SubmitResult{}, fmt.Errorf("read form: %w", err)
	}

	if state != nil && state.Editing() {
		e.ID = state.EditingID
		if err := s.storage.UpdateExpense(ctx, e); err != nil {
			return SubmitResult{}, fmt.Errorf("update expense %d: %w", e.ID, err)
		}
		state.EditingID = 0
		s.publish(ctx, amqp.OperationUpdate, e.ID)
		return SubmitResult{ID: e.ID, Updated: true, Input: in}, nil
	}

	id, err := s.storage.InsertExpense(ctx, e)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("insert expense: %w", err)
	}
	s.publish(ctx, amqp.OperationCreate, id)
	return SubmitResult{ID: id, Input: in}, nil
}

// StartEdit marks id as being edited and returns the form pre-fill.
func (s *ExpenseService) StartEdit(ctx context.Context, state *core.ViewState, id int64) (EditForm, error) {
	e, err := s.storage.GetExpense(ctx, id)
	if err != nil {
		return EditForm{}, fmt.Errorf("load expense %d: %w", id, err)
	}
	if state != nil {
		state.EditingID = id
	}
	in := e.ToInput()
	return EditForm{ID: id, Input: in, DatePreview: core.DatePreview(in.Date)}, nil
}

// CancelEdit leaves edit mode without saving.
func (s *ExpenseService) CancelEdit(state *core.ViewState) {
	if state != nil {
		state.EditingID = 0
	}
}

// Delete removes the record. Deleting the record under edit also ends the edit.
func (s *ExpenseService) Delete(ctx context.Context, state *core.ViewState, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if state != nil && state.EditingID == id {
		state.EditingID = 0
	}
	s.publish(ctx, amqp.OperationDelete, id)
	return nil
}

// Snapshot reloads every record and aggregates those selected by mode.
func (s *ExpenseService) Snapshot(ctx context.Context, mode core.FilterMode) (core.Summary, error) {
	if !mode.Valid() {
		return core.Summary{}, fmt.Errorf("snapshot %q: %w", mode, core.ErrInvalidFilter)
	}
	records, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("reload expenses: %w", err)
	}
	return core.Summarize(records, mode, s.now(), s.currency), nil
}

// Chart lays out the daily breakdown of the snapshot for mode.
func (s *ExpenseService) Chart(ctx context.Context, mode core.FilterMode) (chart.Layout, error) {
	summary, err := s.Snapshot(ctx, mode)
	if err != nil {
		return chart.Layout{}, err
	}
	return chart.Build(summary.Daily, s.currency, chart.DefaultBarHeight), nil
}

// Currency is the ISO code used to format sums.
func (s *ExpenseService) Currency() string {
	return s.currency
}

func (s *ExpenseService) publish(ctx context.Context, op amqp.Operation, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseChanged(ctx, op, id); err != nil {
		// The change is already stored; events are best effort.
		slog.ErrorContext(ctx, "Failed to publish change message",
			"operation", op, "id", id, "error", err)
	}
}

// Close closes storage and publisher when they hold resources.
func (s *ExpenseService) Close() error {
	var errs []error

	if c, ok := s.storage.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
