package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/whatsapp-ledger-assistant/internal/domain/chat"
)

// WorkerPoolProcessingService fans inbound messages out to a bounded worker
// pool. Each message is processed by one worker; messages for independent
// users run concurrently with no shared state between pipeline runs.
type WorkerPoolProcessingService struct {
	processor MessageProcessor
	pool      *ants.Pool
	logger    *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	processor MessageProcessor,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		processor: processor,
		pool:      pool,
		logger:    logger,
	}, nil
}

// ProcessMessage submits a message to the worker pool and waits for the
// pipeline run to finish. The only error it can return is a pool submission
// failure; pipeline failures are handled inside the pipeline itself.
func (s *WorkerPoolProcessingService) ProcessMessage(ctx context.Context, msg *chat.InboundMessage) error {
	logger := s.logger
	if msg.CorrelationID != "" {
		logger = s.logger.With("correlation_id", msg.CorrelationID)
	}

	logger.Info("Submitting message to worker pool",
		"message_id", msg.MessageID,
		"from", msg.From,
	)

	done := make(chan struct{})

	// Copy the message to avoid data races with the caller.
	msgCopy := *msg

	err := s.pool.Submit(func() {
		defer close(done)
		s.processor.Process(ctx, &msgCopy)
	})
	if err != nil {
		logger.Error("Failed to submit message to worker pool",
			"message_id", msg.MessageID,
			"error", err,
		)
		return err
	}

	<-done
	return nil
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
