package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Operation names the mutation that produced a change message.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	switch op {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// ExpenseChangedMessage announces that the expense log changed.
// It carries only the id; consumers reload from storage.
type ExpenseChangedMessage struct {
	MessageID uuid.UUID `json:"message_id"`
	Operation Operation `json:"operation"`
	ExpenseID int64     `json:"expense_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseChangedMessage(op Operation, expenseID int64) *ExpenseChangedMessage {
	return &ExpenseChangedMessage{
		MessageID: uuid.New(),
		Operation: op,
		ExpenseID: expenseID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseChangedMessageFromJSON decodes and validates a message body.
func ExpenseChangedMessageFromJSON(data []byte) (*ExpenseChangedMessage, error) {
	var msg ExpenseChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Operation.Valid() {
		return nil, fmt.Errorf("unknown operation %q", msg.Operation)
	}
	if msg.ExpenseID <= 0 {
		return nil, fmt.Errorf("invalid expense id %d", msg.ExpenseID)
	}
	return &msg, nil
}
