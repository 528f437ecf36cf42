package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userauth/auth-service/internal/core/domain"
)

const auditCollection = "audit_events"

// MongoAuditRepository stores the append-only security trail. Writes happen
// off the request path, so no index beyond _id is maintained here.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type auditEventDoc struct {
	UserID    string `bson:"user_id,omitempty"`
	Action    string `bson:"action"`
	UserAgent string `bson:"user_agent,omitempty"`
	IPAddress string `bson:"ip_address,omitempty"`
	At        int64  `bson:"at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := auditEventDoc{
		UserID:    event.UserID,
		Action:    string(event.Action),
		UserAgent: event.UserAgent,
		IPAddress: event.IPAddress,
		At:        event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
