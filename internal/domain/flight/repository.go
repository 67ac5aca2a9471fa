package flight

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines flight record retrieval
type Repository interface {
	// GetByParticipant returns all flights where the user is the pilot
	// or the designated payer, ordered by flight date ascending
	GetByParticipant(ctx context.Context, userID uuid.UUID) ([]*Flight, error)
}
