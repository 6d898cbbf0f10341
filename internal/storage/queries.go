package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Expense is a row of the expenses table.
type Expense struct {
	ID       int64
	Amount   sql.NullFloat64
	Category string
	Note     sql.NullString
	Date     sql.NullString
}

const listExpenses = `SELECT id, amount, category, note, date FROM expenses ORDER BY id DESC`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.Amount, &i.Category, &i.Note, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getExpense = `SELECT id, amount, category, note, date FROM expenses WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	row := q.db.QueryRowContext(ctx, getExpense, id)
	var i Expense
	err := row.Scan(&i.ID, &i.Amount, &i.Category, &i.Note, &i.Date)
	return i, err
}

const createExpense = `INSERT INTO expenses (amount, category, note, date) VALUES (?, ?, ?, ?) RETURNING id`

type CreateExpenseParams struct {
	Amount   float64
	Category string
	Note     sql.NullString
	Date     sql.NullString
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.Amount, arg.Category, arg.Note, arg.Date)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateExpense = `UPDATE expenses SET amount = ?, category = ?, note = ?, date = ? WHERE id = ?`

type UpdateExpenseParams struct {
	Amount   float64
	Category string
	Note     sql.NullString
	Date     sql.NullString
	ID       int64
}

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateExpense, arg.Amount, arg.Category, arg.Note, arg.Date, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpense = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteExpense, id)
	return err
}

const createExpensesTable = `CREATE TABLE IF NOT EXISTS expenses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    amount REAL NOT NULL,
    category TEXT NOT NULL,
    note TEXT
)`

func (q *Queries) CreateExpensesTable(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, createExpensesTable)
	return err
}

const addDateColumn = `ALTER TABLE expenses ADD COLUMN date TEXT`

func (q *Queries) AddDateColumn(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, addDateColumn)
	return err
}

// TableColumns lists column names via PRAGMA table_info.
func (q *Queries) TableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}
