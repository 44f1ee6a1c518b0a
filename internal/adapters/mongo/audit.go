package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
	"github.com/robertarktes/holidaze-gateway/internal/outbox"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("booking_audit"),
		logger: logger,
	}
}

type AuditLog struct {
	ID         string    `bson:"_id" json:"id"`
	Action     string    `bson:"action" json:"action"`
	Profile    string    `bson:"profile" json:"profile"`
	BookingID  string    `bson:"booking_id" json:"bookingId"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	RecordedAt time.Time `bson:"recorded_at" json:"recordedAt"`
	Data       bson.M    `bson:"data" json:"data"`
}

// EnsureIndexes creates the lookup index used by ListByProfile.
func (a *AuditLogger) EnsureIndexes(ctx context.Context) error {
	_, err := a.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "profile", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return errors.Wrap(err, "create audit index")
}

// LogBooking records e. The event id is the document id, so redelivered
// messages are stored once.
func (a *AuditLogger) LogBooking(ctx context.Context, e outbox.Event) error {
	log := AuditLog{
		ID:         e.ID.String(),
		Action:     e.Type,
		Profile:    e.Profile,
		BookingID:  e.BookingID,
		Timestamp:  e.OccurredAt,
		RecordedAt: time.Now().UTC(),
		Data: bson.M{
			"venue_id":  e.VenueID,
			"guests":    e.Guests,
			"date_from": e.DateFrom,
			"date_to":   e.DateTo,
			"total":     e.TotalPrice,
		},
	}
	_, err := a.coll.InsertOne(ctx, log)
	if mongo.IsDuplicateKeyError(err) {
		a.logger.WithField("event_id", log.ID).Debug("audit record already stored")
		return nil
	}
	if err != nil {
		a.logger.WithError(err).Error("failed to insert audit log")
		return errors.Wrap(err, "insert audit log")
	}
	return nil
}

// Ping reports whether the audit store is reachable.
func (a *AuditLogger) Ping(ctx context.Context) error {
	return a.coll.Database().Client().Ping(ctx, nil)
}

// ListByProfile returns the profile's most recent records first.
func (a *AuditLogger) ListByProfile(ctx context.Context, profile string, limit int64) ([]AuditLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := a.coll.Find(ctx, bson.M{"profile": profile}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find audit logs")
	}
	defer cur.Close(ctx)

	logs := []AuditLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, errors.Wrap(err, "decode audit logs")
	}
	return logs, nil
}
