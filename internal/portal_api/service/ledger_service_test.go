package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aeroclub-flight-ledger/internal/domain/flight"
	"github.com/aeroclub-flight-ledger/internal/domain/invoice"
	"github.com/aeroclub-flight-ledger/internal/domain/ledger"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	args := m.Called(tx)
	return args.Get(0).(invoice.Repository)
}

func (m *MockInvoiceRepository) GetByNumber(ctx context.Context, series, number string) (*invoice.Invoice, error) {
	args := m.Called(ctx, series, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) GetSettledLinesByUser(ctx context.Context, userID uuid.UUID) ([]invoice.Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]invoice.Line), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) GetByParticipant(ctx context.Context, userID uuid.UUID) ([]*flight.Flight, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*flight.Flight), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func hourPackageLine(issue time.Time, hours string) invoice.Line {
	return invoice.Line{
		InvoiceID:     uuid.New(),
		InvoiceNumber: "0042",
		IssueDate:     issue,
		ItemName:      "Hour package " + hours + "h",
		Unit:          "ore",
		Quantity:      decimal.RequireFromString(hours),
		Amount:        decimal.RequireFromString("4500"),
		Currency:      "RON",
	}
}

func TestLedgerService_GetUserLedger(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	subject := uuid.New()

	t.Run("InvoiceCreditsBalance", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).
			Return([]invoice.Line{hourPackageLine(day(1), "25")}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).
			Return([]*flight.Flight{}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		require.NoError(t, err)
		require.Len(t, statement.Entries, 1)

		entry := statement.Entries[0]
		assert.Equal(t, ledger.EventTypeInvoice, entry.EventType)
		assert.True(t, entry.HoursAdded.Equal(decimal.RequireFromString("25")))
		assert.True(t, entry.BalanceAfter.Equal(decimal.RequireFromString("25")))
		assert.True(t, statement.Summary.FinalBalance.Equal(decimal.RequireFromString("25")))
	})

	t.Run("SchoolFlightDebitsOwnPilot", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).
			Return([]invoice.Line{hourPackageLine(day(1), "25")}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).
			Return([]*flight.Flight{
				{ID: "FL-1", Date: day(5), PilotID: subject, TotalHours: decimal.RequireFromString("1.5"), Type: flight.TypeSchool},
			}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		require.NoError(t, err)
		require.Len(t, statement.Entries, 2)

		flightEntry := statement.Entries[1]
		assert.Equal(t, ledger.EventTypeFlight, flightEntry.EventType)
		assert.True(t, flightEntry.HoursDeducted.Equal(decimal.RequireFromString("1.5")))
		assert.True(t, flightEntry.BalanceAfter.Equal(decimal.RequireFromString("23.5")))
	})

	t.Run("FerryFlightNeverDebits", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).
			Return([]invoice.Line{hourPackageLine(day(1), "25")}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).
			Return([]*flight.Flight{
				{ID: "FL-2", Date: day(6), PilotID: subject, TotalHours: decimal.RequireFromString("2"), Type: flight.TypeFerry},
			}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		require.NoError(t, err)
		require.Len(t, statement.Entries, 2)

		ferryEntry := statement.Entries[1]
		assert.True(t, ferryEntry.HoursDeducted.IsZero())
		assert.True(t, ferryEntry.BalanceAfter.Equal(decimal.RequireFromString("25")), "balance unchanged by ferry flight")

		// Ferry hours still count as hours flown in the summary
		assert.True(t, statement.Summary.HoursByType.Ferry.Hours.Equal(decimal.RequireFromString("2")))
		assert.Equal(t, 1, statement.Summary.HoursByType.Ferry.Count)
		assert.True(t, statement.Summary.TotalHoursDeducted.IsZero())
	})

	t.Run("InstructorIsNeverCharged", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		student := uuid.New()
		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).
			Return([]invoice.Line{}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).
			Return([]*flight.Flight{
				{ID: "FL-3", Date: day(7), PilotID: subject, InstructorID: subject, PayerID: student, TotalHours: decimal.RequireFromString("1.0"), Type: flight.TypeSchool},
			}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		require.NoError(t, err)
		require.Len(t, statement.Entries, 1)
		assert.Equal(t, ledger.RoleInstructor, statement.Entries[0].Role)
		assert.True(t, statement.Entries[0].HoursDeducted.IsZero())
	})

	t.Run("CharteredPilotNotChargedButPayerIs", func(t *testing.T) {
		payer := uuid.New()
		charterFlight := func() *flight.Flight {
			return &flight.Flight{
				ID:         "FL-4",
				Date:       day(8),
				PilotID:    subject,
				PayerID:    payer,
				TotalHours: decimal.RequireFromString("3.0"),
				Type:       flight.TypeCharter,
			}
		}

		// Subject's ledger: no debit
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)
		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).Return([]invoice.Line{}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).Return([]*flight.Flight{charterFlight()}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		require.NoError(t, err)
		require.Len(t, statement.Entries, 1)
		assert.Equal(t, ledger.RolePilot, statement.Entries[0].Role)
		assert.True(t, statement.Entries[0].HoursDeducted.IsZero())

		// Payer's ledger: full debit
		invoiceRepo2 := new(MockInvoiceRepository)
		flightRepo2 := new(MockFlightRepository)
		svc2 := NewLedgerService(logger, invoiceRepo2, flightRepo2)
		invoiceRepo2.On("GetSettledLinesByUser", mock.Anything, payer).Return([]invoice.Line{}, nil)
		flightRepo2.On("GetByParticipant", mock.Anything, payer).Return([]*flight.Flight{charterFlight()}, nil)

		payerStatement, err := svc2.GetUserLedger(ctx, payer)
		require.NoError(t, err)
		require.Len(t, payerStatement.Entries, 1)
		assert.Equal(t, ledger.RolePayer, payerStatement.Entries[0].Role)
		assert.True(t, payerStatement.Entries[0].HoursDeducted.Equal(decimal.RequireFromString("3.0")))
	})

	t.Run("NonHourLinesDoNotCredit", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		landingFee := invoice.Line{
			InvoiceID:     uuid.New(),
			InvoiceNumber: "0043",
			IssueDate:     day(2),
			ItemName:      "Landing fee",
			Unit:          "buc",
			Quantity:      decimal.RequireFromString("1"),
			Amount:        decimal.RequireFromString("50"),
			Currency:      "RON",
		}
		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).
			Return([]invoice.Line{hourPackageLine(day(1), "10"), landingFee}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).
			Return([]*flight.Flight{}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		require.NoError(t, err)
		require.Len(t, statement.Entries, 1)
		assert.Equal(t, "Hour package 10h", statement.Entries[0].Description)
	})

	t.Run("EmptyInputYieldsEmptyLedger", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).Return([]invoice.Line{}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).Return([]*flight.Flight{}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		require.NoError(t, err)
		assert.Empty(t, statement.Entries)
		assert.True(t, statement.Summary.FinalBalance.IsZero())
		assert.Equal(t, 0, statement.Summary.EntryCount)
		assert.Equal(t, 0, statement.Summary.InvoiceCount)
		assert.Equal(t, 0, statement.Summary.FlightCount)
	})

	t.Run("InvoiceFetchFailureAbortsRequest", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		dbErr := errors.New("connection refused")
		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).Return(nil, dbErr)
		flightRepo.On("GetByParticipant", mock.Anything, subject).Return([]*flight.Flight{}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		assert.Nil(t, statement)

		var upstream ErrUpstreamFetch
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, SourceInvoices, upstream.Source)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("FlightFetchFailureAbortsRequest", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		dbErr := errors.New("mongo timeout")
		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).Return([]invoice.Line{}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).Return(nil, dbErr)

		statement, err := svc.GetUserLedger(ctx, subject)
		assert.Nil(t, statement)

		var upstream ErrUpstreamFetch
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, SourceFlights, upstream.Source)
	})

	t.Run("EntriesOrderedByDateAcrossSources", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		flightRepo := new(MockFlightRepository)
		svc := NewLedgerService(logger, invoiceRepo, flightRepo)

		invoiceRepo.On("GetSettledLinesByUser", mock.Anything, subject).
			Return([]invoice.Line{hourPackageLine(day(10), "5"), hourPackageLine(day(1), "25")}, nil)
		flightRepo.On("GetByParticipant", mock.Anything, subject).
			Return([]*flight.Flight{
				{ID: "FL-5", Date: day(5), PilotID: subject, TotalHours: decimal.RequireFromString("2"), Type: flight.TypeSchool},
			}, nil)

		statement, err := svc.GetUserLedger(ctx, subject)
		require.NoError(t, err)
		require.Len(t, statement.Entries, 3)

		for i := 1; i < len(statement.Entries); i++ {
			assert.False(t, statement.Entries[i].Date.Before(statement.Entries[i-1].Date),
				"entries must be in non-decreasing date order")
		}
		assert.True(t, statement.Summary.FinalBalance.Equal(decimal.RequireFromString("28")))
	})
}
