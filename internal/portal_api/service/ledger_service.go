package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aeroclub-flight-ledger/internal/domain/flight"
	"github.com/aeroclub-flight-ledger/internal/domain/invoice"
	"github.com/aeroclub-flight-ledger/internal/domain/ledger"
)

// Upstream source names carried by ErrUpstreamFetch
const (
	SourceInvoices = "invoices"
	SourceFlights  = "flights"
)

// ErrUpstreamFetch indicates that one of the backing store queries failed.
// The whole ledger request fails with it; no partial ledger is ever returned.
type ErrUpstreamFetch struct {
	Source string
	Err    error
}

func (e ErrUpstreamFetch) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Source, e.Err)
}

func (e ErrUpstreamFetch) Unwrap() error {
	return e.Err
}

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	invoiceRepo invoice.Repository
	flightRepo  flight.Repository
	logger      *slog.Logger
}

// NewLedgerService creates a new settlement ledger service
func NewLedgerService(logger *slog.Logger, invoiceRepo invoice.Repository, flightRepo flight.Repository) LedgerService {
	return &LedgerServiceImpl{
		invoiceRepo: invoiceRepo,
		flightRepo:  flightRepo,
		logger:      logger,
	}
}

// GetUserLedger fetches the user's settled invoice lines and flights
// concurrently, folds them into the chronological ledger, and computes the
// per-type summary over the raw flight set
func (s *LedgerServiceImpl) GetUserLedger(ctx context.Context, userID uuid.UUID) (*ledger.Statement, error) {
	type invoicesResult struct {
		lines []invoice.Line
		err   error
	}
	type flightsResult struct {
		flights []*flight.Flight
		err     error
	}

	invoicesCh := make(chan invoicesResult, 1)
	flightsCh := make(chan flightsResult, 1)

	go func() {
		lines, err := s.invoiceRepo.GetSettledLinesByUser(ctx, userID)
		invoicesCh <- invoicesResult{lines: lines, err: err}
	}()
	go func() {
		flights, err := s.flightRepo.GetByParticipant(ctx, userID)
		flightsCh <- flightsResult{flights: flights, err: err}
	}()

	invoicesRes := <-invoicesCh
	flightsRes := <-flightsCh

	if invoicesRes.err != nil {
		s.logger.Error("Failed to fetch invoice lines for ledger",
			"user_id", userID.String(),
			"error", invoicesRes.err,
		)
		return nil, ErrUpstreamFetch{Source: SourceInvoices, Err: invoicesRes.err}
	}
	if flightsRes.err != nil {
		s.logger.Error("Failed to fetch flights for ledger",
			"user_id", userID.String(),
			"error", flightsRes.err,
		)
		return nil, ErrUpstreamFetch{Source: SourceFlights, Err: flightsRes.err}
	}

	hourLines := invoice.HourLines(invoicesRes.lines)
	credits := make([]ledger.Entry, 0, len(hourLines))
	for _, line := range hourLines {
		credits = append(credits, ledger.InvoiceEntry(line))
	}

	debits := make([]ledger.Entry, 0, len(flightsRes.flights))
	for _, f := range flightsRes.flights {
		debits = append(debits, ledger.FlightEntry(f, userID))
	}

	entries := ledger.Build(credits, debits)
	summary := ledger.NewSummary(entries, ledger.SummarizeFlights(flightsRes.flights))

	s.logger.Debug("Ledger computed",
		"user_id", userID.String(),
		"entries", len(entries),
		"final_balance", summary.FinalBalance.String(),
	)

	return &ledger.Statement{
		UserID:  userID,
		Entries: entries,
		Summary: summary,
	}, nil
}
