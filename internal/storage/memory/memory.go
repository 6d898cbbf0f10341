package memory

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"expenselog/internal/core"
	"expenselog/internal/storage"
)

// Store keeps expenses in process memory. Ids start at 1 and are never reused.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense // oldest first
}

func New(seed ...core.Expense) *Store {
	s := &Store{nextID: 1}
	for _, e := range seed {
		_, _ = s.InsertExpense(context.Background(), e)
	}
	return s
}

// NewFromFile seeds the store from a file of "amount;category;note;date" lines.
// Blank lines, comments and invalid lines are skipped; a missing file yields an empty store.
func NewFromFile(path string) *Store {
	s := New()
	for _, line := range readLines(path) {
		parts := strings.Split(line, ";")
		for len(parts) < 4 {
			parts = append(parts, "")
		}
		e, err := core.FromInput(core.ExpenseInput{
			Amount:   parts[0],
			Category: parts[1],
			Note:     parts[2],
			Date:     parts[3],
		})
		if err != nil {
			continue
		}
		_, _ = s.InsertExpense(context.Background(), e)
	}
	return s
}

// ListExpenses returns a copy of all expenses, newest id first.
func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.items))
	for i, e := range s.items {
		out[len(s.items)-1-i] = e
	}
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return core.Expense{}, storage.ErrNotFound
}

// InsertExpense stores the expense under a fresh id.
func (s *Store) InsertExpense(_ context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.items = append(s.items, e)
	return e.ID, nil
}

// UpdateExpense replaces the expense with the same id; unknown ids are ignored.
func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(e.ID); i >= 0 {
		s.items[i] = e
	}
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i, e := range s.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
