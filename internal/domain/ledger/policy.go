package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aeroclub-flight-ledger/internal/domain/flight"
	"github.com/aeroclub-flight-ledger/internal/domain/invoice"
)

// Assessment is the outcome of the deduction policy for one flight,
// evaluated for one subject user
type Assessment struct {
	Payer        uuid.UUID
	Role         Role
	ShouldDeduct bool
}

// Assess decides who effectively pays for a flight, what the subject's role
// on it is, and whether the flight debits the subject's hour balance.
// The deduction test is a strict conjunction: any single failing condition
// means zero hours are deducted regardless of TotalHours.
//
// Instructors and ferry/demo flights are operational cost, not billable to
// the flying party; a pilot flying on someone else's dime incurs no
// personal debit even though the hours were flown.
//
// Assess is a total, pure function over its inputs.
func Assess(f *flight.Flight, subjectID uuid.UUID) Assessment {
	payer := f.EffectivePayer()

	role := RolePilot
	switch {
	case f.InstructorID != uuid.Nil && f.InstructorID == subjectID:
		role = RoleInstructor
	case subjectID == payer && payer != f.PilotID:
		role = RolePayer
	}

	// Subject flying a flight chartered/paid by someone else
	charteredPilot := subjectID == f.PilotID && f.PayerID != uuid.Nil && f.PayerID != subjectID

	shouldDeduct := subjectID == payer &&
		role != RoleInstructor &&
		f.Type != flight.TypeFerry &&
		f.Type != flight.TypeDemo &&
		!charteredPilot

	return Assessment{
		Payer:        payer,
		Role:         role,
		ShouldDeduct: shouldDeduct,
	}
}

// FlightEntry maps a flight to a debit entry for the subject user.
// HoursAdded is always zero for flight entries; HoursDeducted is the
// flight's total hours only when the deduction policy says so.
// BalanceAfter is left for Build to fill in.
func FlightEntry(f *flight.Flight, subjectID uuid.UUID) Entry {
	a := Assess(f, subjectID)

	deducted := decimal.Zero
	if a.ShouldDeduct {
		deducted = f.TotalHours
	}

	label := f.Type.Label()
	return Entry{
		Date:          f.Date,
		EventType:     EventTypeFlight,
		Reference:     f.ID,
		Description:   label,
		HoursAdded:    decimal.Zero,
		HoursDeducted: deducted,
		FlightType:    label,
		Role:          a.Role,
		FlightID:      f.ID,
	}
}

// InvoiceEntry maps a qualifying hour-package line to a credit entry.
// BalanceAfter is left for Build to fill in.
func InvoiceEntry(line invoice.Line) Entry {
	amount := line.Amount
	return Entry{
		Date:          line.IssueDate,
		EventType:     EventTypeInvoice,
		Reference:     line.InvoiceNumber,
		Description:   line.ItemName,
		HoursAdded:    line.Quantity,
		HoursDeducted: decimal.Zero,
		InvoiceAmount: &amount,
		Currency:      line.Currency,
	}
}
