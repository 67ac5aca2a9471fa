package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/aeroclub-flight-ledger/internal/domain/shared"
)

// WorkerPoolProcessingService wraps a ProcessingService with a bounded
// worker pool so concurrent Kafka partitions cannot overload the database
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
	// Protects access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessImport submits an import request to the worker pool and waits for
// its outcome, so the caller's commit semantics are preserved
func (s *WorkerPoolProcessingService) ProcessImport(ctx context.Context, request *shared.InvoiceImportRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Submitting import request to worker pool",
		"import_id", request.ImportID.String(),
		"source", request.Source,
	)

	resultChan := make(chan error, 1)

	importID := request.ImportID.String()
	s.mu.Lock()
	s.results[importID] = resultChan
	s.mu.Unlock()

	// Copy the request to avoid data races with the caller
	requestCopy := *request

	err := s.pool.Submit(func() {
		err := s.baseService.ProcessImport(ctx, &requestCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, importID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, importID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit import request to worker pool",
			"import_id", request.ImportID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
