package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages invoice persistence
type Repository interface {
	// Create stores a new invoice together with its line items
	Create(ctx context.Context, inv *Invoice) error

	// WithTx binds the repository to a transaction so an invoice and its
	// lines are written atomically
	WithTx(tx pgx.Tx) Repository

	// GetByNumber retrieves an invoice by series and number.
	// Returns ErrInvoiceNotFound if no such invoice exists.
	GetByNumber(ctx context.Context, series, number string) (*Invoice, error)

	// GetSettledLinesByUser returns line items of paid or imported
	// invoices whose client record is bound to the given user,
	// ordered by issue date ascending
	GetSettledLinesByUser(ctx context.Context, userID uuid.UUID) ([]Line, error)
}

// ErrInvoiceNotFound indicates a missing invoice
type ErrInvoiceNotFound struct {
	Series string
	Number string
}

func (e ErrInvoiceNotFound) Error() string {
	return "invoice not found: " + e.Series + e.Number
}

// ErrDuplicateInvoice indicates series/number uniqueness violation
type ErrDuplicateInvoice struct {
	Series string
	Number string
}

func (e ErrDuplicateInvoice) Error() string {
	return "invoice already imported: " + e.Series + e.Number
}
