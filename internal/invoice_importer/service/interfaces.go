package service

import (
	"context"

	"github.com/aeroclub-flight-ledger/internal/domain/shared"
)

// ProcessingService defines the interface for processing invoice import requests
type ProcessingService interface {
	ProcessImport(ctx context.Context, request *shared.InvoiceImportRequest) error
}
