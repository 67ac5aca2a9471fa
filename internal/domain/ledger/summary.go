package ledger

import (
	"github.com/aeroclub-flight-ledger/internal/domain/flight"
)

// SummarizeFlights totals hours flown per flight type over the raw flight
// set. It uses TotalHours directly, not the conditional HoursDeducted: a
// ferry flight counts toward ferry hours flown even though it never debits
// the ledger. "Hours flown in a category" and "hours charged to the user"
// are two different metrics and neither is derived from the other.
func SummarizeFlights(flights []*flight.Flight) HoursByType {
	var byType HoursByType
	for _, f := range flights {
		switch f.Type {
		case flight.TypeInvoiced:
			byType.Invoiced.add(f.TotalHours)
		case flight.TypeSchool:
			byType.School.add(f.TotalHours)
		case flight.TypeCharter:
			byType.Charter.add(f.TotalHours)
		case flight.TypeDemo:
			byType.Demo.add(f.TotalHours)
		case flight.TypeFerry:
			byType.Ferry.add(f.TotalHours)
		}
	}
	return byType
}

// NewSummary computes the ledger totals from the built entry sequence and
// attaches the independently computed per-type breakdown
func NewSummary(entries []Entry, byType HoursByType) Summary {
	s := Summary{
		EntryCount:  len(entries),
		HoursByType: byType,
	}

	for _, e := range entries {
		s.TotalHoursAdded = s.TotalHoursAdded.Add(e.HoursAdded)
		s.TotalHoursDeducted = s.TotalHoursDeducted.Add(e.HoursDeducted)
		switch e.EventType {
		case EventTypeInvoice:
			s.InvoiceCount++
		case EventTypeFlight:
			s.FlightCount++
		}
	}

	if len(entries) > 0 {
		s.FinalBalance = entries[len(entries)-1].BalanceAfter
	}

	return s
}
