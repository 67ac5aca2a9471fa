// Package postgres provides the PostgreSQL implementation of the invoice
// repository. Invoices and their line items are written by the importer and
// read by the settlement ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aeroclub-flight-ledger/internal/domain/invoice"
	"github.com/aeroclub-flight-ledger/internal/platform/persistence"
)

const uniqueViolationCode = "23505"

// InvoiceRepository implements the invoice.Repository interface for PostgreSQL
type InvoiceRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository
func NewInvoiceRepository(logger *slog.Logger, db *persistence.PostgresDB) invoice.Repository {
	return &InvoiceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction so an invoice
// and its line items can be written atomically
func (r *InvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	return &InvoiceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores an invoice together with its line items.
// Returns ErrDuplicateInvoice when the series/number pair already exists.
func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (id, series, number, issue_date, status, client_user_id, currency, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		inv.ID,
		inv.Series,
		inv.Number,
		inv.IssueDate,
		inv.Status,
		inv.ClientUserID,
		inv.Currency,
		inv.TotalAmount,
		inv.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return invoice.ErrDuplicateInvoice{Series: inv.Series, Number: inv.Number}
		}
		r.logger.Error("Failed to create invoice", "number", inv.Number, "error", err)
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	lineQuery := `
		INSERT INTO invoice_lines (invoice_id, item_name, unit, quantity, amount)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, line := range inv.Lines {
		if _, err := r.querier.Exec(ctx, lineQuery,
			inv.ID,
			line.ItemName,
			line.Unit,
			line.Quantity,
			line.Amount,
		); err != nil {
			r.logger.Error("Failed to create invoice line", "number", inv.Number, "item", line.ItemName, "error", err)
			return fmt.Errorf("failed to create invoice line: %w", err)
		}
	}

	return nil
}

// GetByNumber retrieves an invoice header by series and number.
// Line items are not loaded; the importer only needs existence and status.
func (r *InvoiceRepository) GetByNumber(ctx context.Context, series, number string) (*invoice.Invoice, error) {
	query := `
		SELECT id, series, number, issue_date, status, client_user_id, currency, total_amount, created_at
		FROM invoices
		WHERE series = $1 AND number = $2
	`

	var inv invoice.Invoice
	err := r.querier.QueryRow(ctx, query, series, number).Scan(
		&inv.ID,
		&inv.Series,
		&inv.Number,
		&inv.IssueDate,
		&inv.Status,
		&inv.ClientUserID,
		&inv.Currency,
		&inv.TotalAmount,
		&inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrInvoiceNotFound{Series: series, Number: number}
		}
		r.logger.Error("Failed to get invoice by number", "series", series, "number", number, "error", err)
		return nil, fmt.Errorf("failed to get invoice by number: %w", err)
	}

	return &inv, nil
}

// GetSettledLinesByUser returns the line items of paid or imported invoices
// bound to the user, flattened with the invoice fields the ledger needs,
// ordered by issue date ascending.
func (r *InvoiceRepository) GetSettledLinesByUser(ctx context.Context, userID uuid.UUID) ([]invoice.Line, error) {
	query := `
		SELECT i.id, i.number, i.issue_date, l.item_name, l.unit, l.quantity, l.amount, i.currency
		FROM invoice_lines l
		JOIN invoices i ON i.id = l.invoice_id
		WHERE i.client_user_id = $1 AND i.status = ANY($2)
		ORDER BY i.issue_date ASC, l.id ASC
	`

	settled := []string{string(invoice.StatusPaid), string(invoice.StatusImported)}

	rows, err := r.querier.Query(ctx, query, userID, settled)
	if err != nil {
		r.logger.Error("Failed to query invoice lines", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []invoice.Line
	for rows.Next() {
		var line invoice.Line
		if err := rows.Scan(
			&line.InvoiceID,
			&line.InvoiceNumber,
			&line.IssueDate,
			&line.ItemName,
			&line.Unit,
			&line.Quantity,
			&line.Amount,
			&line.Currency,
		); err != nil {
			r.logger.Error("Failed to scan invoice line", "user_id", userID.String(), "error", err)
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoice lines: %w", err)
	}

	return lines, nil
}
