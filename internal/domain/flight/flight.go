package flight

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies the purpose and billing treatment of a flight
type Type string

const (
	TypeSchool   Type = "SCHOOL"
	TypeCharter  Type = "CHARTER"
	TypeFerry    Type = "FERRY"
	TypeDemo     Type = "DEMO"
	TypeInvoiced Type = "INVOICED"
	TypePromo    Type = "PROMO"
)

// Label maps a flight type code to its human-readable form.
// Unrecognized codes pass through unchanged.
func (t Type) Label() string {
	switch t {
	case TypeSchool:
		return "School"
	case TypeCharter:
		return "Charter"
	case TypeFerry:
		return "Ferry"
	case TypeDemo:
		return "Demo"
	case TypeInvoiced:
		return "Invoiced"
	case TypePromo:
		return "Promo"
	default:
		return string(t)
	}
}

// Flight represents a single flight record from the operations log
type Flight struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	PilotID      uuid.UUID       `json:"pilot_id"`
	InstructorID uuid.UUID       `json:"instructor_id,omitempty"` // uuid.Nil when no instructor was aboard
	PayerID      uuid.UUID       `json:"payer_id,omitempty"`      // uuid.Nil means the pilot pays
	TotalHours   decimal.Decimal `json:"total_hours"`             // zero value when hours were not recorded
	Type         Type            `json:"type"`
}

// EffectivePayer returns the user financially responsible for the flight:
// the explicit payer if set, otherwise the pilot.
func (f *Flight) EffectivePayer() uuid.UUID {
	if f.PayerID != uuid.Nil {
		return f.PayerID
	}
	return f.PilotID
}
