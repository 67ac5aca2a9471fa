// Package mongo provides the MongoDB implementation of the flight-record
// repository. Flight records are written by the scheduling subsystem and
// read here for ledger construction.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aeroclub-flight-ledger/internal/domain/flight"
)

const (
	// FlightCollectionName is the name of the flight collection in MongoDB
	FlightCollectionName = "flights"
)

// flightDocument is the stored shape of a flight record. Hours are stored
// as float64 in the collection and converted to decimals at the boundary.
type flightDocument struct {
	ID           string    `bson:"_id"`
	Date         time.Time `bson:"date"`
	PilotID      string    `bson:"pilot_id"`
	InstructorID string    `bson:"instructor_id,omitempty"`
	PayerID      string    `bson:"payer_id,omitempty"`
	TotalHours   float64   `bson:"total_hours"`
	Type         string    `bson:"type"`
}

// FlightRepository implements the flight.Repository interface for MongoDB
type FlightRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewFlightRepository creates a new MongoDB flight repository
func NewFlightRepository(logger *slog.Logger, db *mongo.Database) flight.Repository {
	return &FlightRepository{
		db:     db,
		logger: logger,
	}
}

// GetByParticipant returns all flights where the user is the pilot or the
// designated payer, ordered by flight date ascending
func (r *FlightRepository) GetByParticipant(ctx context.Context, userID uuid.UUID) ([]*flight.Flight, error) {
	collection := r.db.Collection(FlightCollectionName)

	id := userID.String()
	filter := bson.M{
		"$or": bson.A{
			bson.M{"pilot_id": id},
			bson.M{"payer_id": id},
		},
	}
	opts := options.Find().SetSort(bson.M{"date": 1})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get flights", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to get flights: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []flightDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode flights", "user_id", id, "error", err)
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}

	flights := make([]*flight.Flight, 0, len(docs))
	for _, doc := range docs {
		f, err := doc.toDomain()
		if err != nil {
			r.logger.Error("Failed to map flight document", "flight_id", doc.ID, "error", err)
			return nil, fmt.Errorf("failed to map flight document %s: %w", doc.ID, err)
		}
		flights = append(flights, f)
	}

	return flights, nil
}

func (d *flightDocument) toDomain() (*flight.Flight, error) {
	pilotID, err := uuid.Parse(d.PilotID)
	if err != nil {
		return nil, fmt.Errorf("invalid pilot id %q: %w", d.PilotID, err)
	}

	instructorID := uuid.Nil
	if d.InstructorID != "" {
		if instructorID, err = uuid.Parse(d.InstructorID); err != nil {
			return nil, fmt.Errorf("invalid instructor id %q: %w", d.InstructorID, err)
		}
	}

	payerID := uuid.Nil
	if d.PayerID != "" {
		if payerID, err = uuid.Parse(d.PayerID); err != nil {
			return nil, fmt.Errorf("invalid payer id %q: %w", d.PayerID, err)
		}
	}

	return &flight.Flight{
		ID:           d.ID,
		Date:         d.Date,
		PilotID:      pilotID,
		InstructorID: instructorID,
		PayerID:      payerID,
		TotalHours:   decimal.NewFromFloat(d.TotalHours),
		Type:         flight.Type(d.Type),
	}, nil
}
