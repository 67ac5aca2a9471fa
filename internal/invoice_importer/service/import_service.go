package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/aeroclub-flight-ledger/internal/domain/invoice"
	"github.com/aeroclub-flight-ledger/internal/domain/shared"
	"github.com/aeroclub-flight-ledger/internal/invoice_importer/smartbill"
	"github.com/aeroclub-flight-ledger/internal/platform/persistence"
)

// ErrUnprocessable marks an import request that can never succeed: bad
// payload, unsupported source, or a document failing validation. The consumer
// routes these to the DLQ instead of retrying.
type ErrUnprocessable struct {
	Reason string
	Err    error
}

func (e ErrUnprocessable) Error() string {
	return fmt.Sprintf("unprocessable import request: %s: %v", e.Reason, e.Err)
}

func (e ErrUnprocessable) Unwrap() error {
	return e.Err
}

// ProcessingServiceImpl implements the ProcessingService interface
type ProcessingServiceImpl struct {
	pgDB        *persistence.PostgresDB
	invoiceRepo invoice.Repository
	logger      *slog.Logger
}

// NewProcessingService creates a new invoice import processing service
func NewProcessingService(
	logger *slog.Logger,
	pgDB *persistence.PostgresDB,
	invoiceRepo invoice.Repository,
) ProcessingService {
	return &ProcessingServiceImpl{
		pgDB:        pgDB,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// ProcessImport parses the raw payload and persists the invoice with its
// line items in one transaction. Re-imports of an already stored invoice
// are acknowledged without error so redeliveries stay idempotent.
func (s *ProcessingServiceImpl) ProcessImport(ctx context.Context, request *shared.InvoiceImportRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing import request",
		"import_id", request.ImportID.String(),
		"source", request.Source,
	)

	if request.Source != shared.SourceSmartBillXML {
		return ErrUnprocessable{Reason: "unsupported source " + request.Source}
	}

	inv, err := smartbill.Parse([]byte(request.Payload))
	if err != nil {
		logger.Error("Failed to parse invoice payload",
			"import_id", request.ImportID.String(),
			"error", err,
		)
		return ErrUnprocessable{Reason: "invalid payload", Err: err}
	}

	existing, err := s.invoiceRepo.GetByNumber(ctx, inv.Series, inv.Number)
	if err != nil {
		var notFound invoice.ErrInvoiceNotFound
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to check for existing invoice: %w", err)
		}
	}
	if existing != nil {
		logger.Info("Invoice already imported, skipping",
			"import_id", request.ImportID.String(),
			"series", inv.Series,
			"number", inv.Number,
		)
		return nil
	}

	err = s.pgDB.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.invoiceRepo.WithTx(tx).Create(ctx, inv)
	})
	if err != nil {
		var duplicate invoice.ErrDuplicateInvoice
		if errors.As(err, &duplicate) {
			// Lost a race with a concurrent import of the same invoice
			logger.Info("Invoice imported concurrently, skipping",
				"series", duplicate.Series,
				"number", duplicate.Number,
			)
			return nil
		}
		logger.Error("Failed to persist invoice",
			"import_id", request.ImportID.String(),
			"series", inv.Series,
			"number", inv.Number,
			"error", err,
		)
		return fmt.Errorf("failed to persist invoice %s%s: %w", inv.Series, inv.Number, err)
	}

	logger.Info("Invoice imported",
		"import_id", request.ImportID.String(),
		"series", inv.Series,
		"number", inv.Number,
		"lines", len(inv.Lines),
		"status", string(inv.Status),
	)

	return nil
}
