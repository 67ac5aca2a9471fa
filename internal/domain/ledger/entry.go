// Package ledger implements the per-user flight-hour settlement ledger.
// It reconciles purchased hour packages (invoice lines) and consumed hours
// (flights) into a single chronological, balance-carrying sequence.
// Everything in this package is derived per request; nothing is persisted.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType identifies the source record of a ledger entry
type EventType string

const (
	EventTypeInvoice EventType = "INVOICE"
	EventTypeFlight  EventType = "FLIGHT"
)

// Role describes the subject user's part in a flight
type Role string

const (
	RolePilot      Role = "PILOT"
	RoleInstructor Role = "INSTRUCTOR"
	RolePayer      Role = "PAYER"
)

// Entry is one chronological credit or debit of flight hours for a user.
// Exactly one of HoursAdded and HoursDeducted is typically non-zero, but
// both are always well-defined (zero by default).
type Entry struct {
	Date          time.Time
	EventType     EventType
	Reference     string // invoice number, or short flight id
	Description   string // item name for invoices, flight-type label for flights
	HoursAdded    decimal.Decimal
	HoursDeducted decimal.Decimal
	BalanceAfter  decimal.Decimal

	// Optional, depending on event type
	FlightType    string
	Role          Role
	InvoiceAmount *decimal.Decimal
	Currency      string
	FlightID      string
}

// Statement is the complete settlement ledger for one user
type Statement struct {
	UserID  uuid.UUID
	Entries []Entry
	Summary Summary
}

// TypeHours aggregates hours flown and flight count for one flight type
type TypeHours struct {
	Hours decimal.Decimal
	Count int
}

func (t *TypeHours) add(hours decimal.Decimal) {
	t.Hours = t.Hours.Add(hours)
	t.Count++
}

// HoursByType breaks down hours flown per flight type. It reports the five
// dashboard categories; PROMO flights are ledgered but not broken out here.
type HoursByType struct {
	Invoiced TypeHours
	School   TypeHours
	Charter  TypeHours
	Demo     TypeHours
	Ferry    TypeHours
}

// Summary carries the ledger totals and the per-type breakdown
type Summary struct {
	TotalHoursAdded    decimal.Decimal
	TotalHoursDeducted decimal.Decimal
	FinalBalance       decimal.Decimal
	EntryCount         int
	InvoiceCount       int
	FlightCount        int
	HoursByType        HoursByType
}
