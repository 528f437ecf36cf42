package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userauth/auth-service/internal/core/domain"
)

const historyCollection = "login_history"

type MongoLoginHistoryRepository struct {
	coll *mongo.Collection
}

func NewLoginHistoryRepository(db *mongo.Database) *MongoLoginHistoryRepository {
	return &MongoLoginHistoryRepository{coll: db.Collection(historyCollection)}
}

type loginRecordDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	LoginAt   int64              `bson:"login_at"`
	UserAgent string             `bson:"user_agent"`
	IPAddress string             `bson:"ip_address"`
}

func (r *MongoLoginHistoryRepository) Insert(ctx context.Context, rec *domain.LoginRecord) error {
	doc := loginRecordDoc{
		UserID:    rec.UserID,
		LoginAt:   rec.LoginAt.Unix(),
		UserAgent: rec.UserAgent,
		IPAddress: rec.IPAddress,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login record: %w", err)
	}
	return nil
}

func (r *MongoLoginHistoryRepository) FindByUserID(ctx context.Context, userID string) ([]domain.LoginRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "login_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find login records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.LoginRecord
	for cursor.Next(ctx) {
		var doc loginRecordDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode login record: %w", err)
		}
		records = append(records, domain.LoginRecord{
			ID:        doc.ID.Hex(),
			UserID:    doc.UserID,
			LoginAt:   unixToTime(doc.LoginAt),
			UserAgent: doc.UserAgent,
			IPAddress: doc.IPAddress,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate login records: %w", err)
	}
	return records, nil
}
