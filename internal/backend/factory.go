package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expenselog/internal/amqp"
	"expenselog/internal/services"
	"expenselog/internal/storage"
	"expenselog/internal/storage/memory"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the store, connects AMQP when configured and builds the
// expense service on top. An unreachable broker only disables change events.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	result := &BackendResult{}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		result.Store = repo
		result.Ready = repo.Ping
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		store := memory.New()
		if config.MemorySeedFile != "" {
			store = memory.NewFromFile(config.MemorySeedFile)
		}
		result.Store = store
		f.logger.Info("Initialized memory backend", "seed_file", config.MemorySeedFile)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	opts := []services.Option{services.WithCurrency(config.Currency)}
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			result.AMQP = client
			opts = append(opts, services.WithPublisher(client))
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	result.Service = services.NewExpenseService(result.Store, opts...)
	// The service owns the store and the AMQP client from here on.
	result.Cleanup = result.Service.Close
	return result, nil
}
