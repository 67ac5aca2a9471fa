package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aeroclub-flight-ledger/internal/domain/ledger"
)

// LedgerService defines the interface for settlement ledger operations
type LedgerService interface {
	// GetUserLedger computes the complete settlement ledger for a user from
	// the current state of invoices and flights. Nothing is cached or
	// persisted; a user with no records yields a valid empty statement.
	// Returns ErrUpstreamFetch when either backing store query fails.
	GetUserLedger(ctx context.Context, userID uuid.UUID) (*ledger.Statement, error)
}

// ImportService defines the interface for submitting invoice import requests
type ImportService interface {
	// RequestImport enqueues a raw invoice payload for asynchronous import
	// and returns the import request ID
	RequestImport(ctx context.Context, source string, payload string, correlationID string) (uuid.UUID, error)
}
