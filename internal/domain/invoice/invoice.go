// Package invoice holds the invoice domain model for the flight school
// portal. Invoices arrive from the billing provider (SmartBill import) and
// are the sole source of purchased hour packages.
package invoice

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrMissingNumber = errors.New("invoice number cannot be empty")
	ErrMissingClient = errors.New("invoice must be bound to a client user")
	ErrMissingDate   = errors.New("invoice issue date cannot be empty")
	ErrNoLines       = errors.New("invoice must have at least one line item")
)

// Status defines the lifecycle states of an invoice
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPaid     Status = "paid"
	StatusImported Status = "imported"
)

// Settled reports whether the invoice may contribute hour credits.
// Only paid and imported invoices count toward a user's balance.
func (s Status) Settled() bool {
	return s == StatusPaid || s == StatusImported
}

// Invoice represents a client invoice imported from the billing provider
type Invoice struct {
	ID           uuid.UUID       `json:"id"`
	Series       string          `json:"series"`
	Number       string          `json:"number"`
	IssueDate    time.Time       `json:"issue_date"`
	Status       Status          `json:"status"`
	ClientUserID uuid.UUID       `json:"client_user_id"`
	Currency     string          `json:"currency"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Lines        []Line          `json:"lines"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Line is a single invoice line item. The invoice number, date, currency
// and status are denormalized onto the line so a flattened query result can
// feed the ledger without a second lookup.
type Line struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	IssueDate     time.Time       `json:"issue_date"`
	ItemName      string          `json:"item_name"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// Validate checks the invoice is complete enough to persist
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.Number) == "" {
		return ErrMissingNumber
	}
	if i.ClientUserID == uuid.Nil {
		return ErrMissingClient
	}
	if i.IssueDate.IsZero() {
		return ErrMissingDate
	}
	if len(i.Lines) == 0 {
		return ErrNoLines
	}
	return nil
}

// hourUnits are the measurement units that denote flight hours on an
// invoice line. Currency units and generic goods never credit hours.
var hourUnits = map[string]struct{}{
	"ore":   {}, // Romanian plural, as exported by SmartBill
	"ora":   {},
	"hour":  {},
	"hours": {},
	"hrs":   {},
	"h":     {},
}

// IsHourUnit reports whether the unit denotes flight hours
func IsHourUnit(unit string) bool {
	_, ok := hourUnits[strings.ToLower(strings.TrimSpace(unit))]
	return ok
}

// HourLines filters line items down to those whose quantity is an hour
// count. Only these contribute credits to the settlement ledger.
func HourLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if IsHourUnit(l.Unit) {
			out = append(out, l)
		}
	}
	return out
}
