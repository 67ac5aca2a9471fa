package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aeroclub-flight-ledger/internal/domain/shared"
	"github.com/aeroclub-flight-ledger/internal/platform/messaging/producers"
)

// ImportServiceImpl implements the ImportService interface
type ImportServiceImpl struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewImportService creates a new invoice import service
func NewImportService(logger *slog.Logger, producer producers.MessagePublisher) ImportService {
	return &ImportServiceImpl{
		producer: producer,
		logger:   logger,
	}
}

// RequestImport enqueues a raw invoice payload for asynchronous processing
// by the importer worker. Returns the import request ID.
func (s *ImportServiceImpl) RequestImport(ctx context.Context, source string, payload string, correlationID string) (uuid.UUID, error) {
	request := &shared.InvoiceImportRequest{
		ImportID:      uuid.New(),
		Source:        source,
		Payload:       payload,
		CorrelationID: correlationID,
		ReceivedAt:    time.Now().UTC(),
	}

	if err := s.producer.Publish(ctx, request.ImportID.String(), request); err != nil {
		s.logger.Error("Failed to publish import request",
			"import_id", request.ImportID.String(),
			"source", source,
			"error", err,
		)
		return uuid.Nil, err
	}

	s.logger.Info("Import request published",
		"import_id", request.ImportID.String(),
		"source", source,
		"payload_bytes", len(payload),
	)

	return request.ImportID, nil
}
