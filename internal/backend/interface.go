package backend

import (
	"context"

	"expenselog/internal/amqp"
	"expenselog/internal/services"
	"expenselog/internal/storage"
)

// CleanupFunc releases the resources a backend holds.
type CleanupFunc func() error

// ReadyFunc reports whether the backend can serve requests.
type ReadyFunc func(ctx context.Context) error

// BackendResult bundles the store, the service built on it and the optional AMQP client.
// AMQP is nil when disabled or unreachable.
type BackendResult struct {
	Store   storage.ExpenseStore
	Service *services.ExpenseService
	AMQP    *amqp.Client
	Ready   ReadyFunc
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific, optional
	MemorySeedFile string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	Currency string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
