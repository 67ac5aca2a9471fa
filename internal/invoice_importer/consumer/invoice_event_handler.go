package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aeroclub-flight-ledger/internal/domain/shared"
	"github.com/aeroclub-flight-ledger/internal/invoice_importer/service"
	"github.com/aeroclub-flight-ledger/internal/platform/messaging/producers"
)

// InvoiceEventHandler handles incoming invoice import request messages from Kafka
type InvoiceEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewInvoiceEventHandler creates a new handler
func NewInvoiceEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *InvoiceEventHandler {
	return &InvoiceEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages. Poison messages (unparseable JSON
// or permanently unprocessable payloads) go to the DLQ and are acknowledged;
// transient failures are returned so the offset stays uncommitted and the
// message is redelivered.
func (h *InvoiceEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.InvoiceImportRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal import request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		reason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
		if h.sendToDLQ(ctx, key, value, reason) {
			return nil
		}
		// Allow Kafka retries when the DLQ is unavailable
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received invoice import request",
		"import_id", request.ImportID.String(),
		"source", request.Source,
		"payload_bytes", len(request.Payload),
	)

	if err := h.processingService.ProcessImport(ctx, &request); err != nil {
		var unprocessable service.ErrUnprocessable
		if errors.As(err, &unprocessable) {
			logger.Error("Import request is unprocessable, routing to DLQ",
				"import_id", request.ImportID.String(),
				"reason", unprocessable.Reason,
				"error", err,
			)
			if h.sendToDLQ(ctx, key, value, unprocessable.Error()) {
				return nil
			}
			return fmt.Errorf("unprocessable import %s and DLQ unavailable: %w", request.ImportID.String(), err)
		}

		logger.Error("Failed to process import request",
			"import_id", request.ImportID.String(),
			"error", err,
		)
		return fmt.Errorf("processing import %s failed: %w", request.ImportID.String(), err)
	}

	logger.Info("Import request processed", "import_id", request.ImportID.String())
	return nil
}

// sendToDLQ publishes the raw message to the DLQ, reporting success
func (h *InvoiceEventHandler) sendToDLQ(ctx context.Context, key []byte, value []byte, reason string) bool {
	if h.producer == nil {
		return false
	}
	if err := h.producer.PublishToDLQ(ctx, string(key), value, reason); err != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", err,
			"message_key", string(key),
		)
		return false
	}
	h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
	return true
}
