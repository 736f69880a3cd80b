package ctxstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/asimov-run/asimov/core/servicectx"
)

type mongoDocument struct {
	ID        string              `bson:"_id"`
	Snapshot  servicectx.Snapshot `bson:"snapshot"`
	ExpiresAt *time.Time          `bson:"expiresAt,omitempty"`
}

// MongoStore persists snapshots as documents in a MongoDB collection, one
// per channel ID.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore wraps an existing collection (see
// integration/database/mongo.NewWithDatabase). The caller is responsible
// for creating a TTL index on expiresAt if automatic Mongo-side expiry is
// desired; Load always re-checks expiry regardless.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (s *MongoStore) Save(ctx context.Context, channelID string, snap servicectx.Snapshot, ttl time.Duration) error {
	doc := mongoDocument{ID: channelID, Snapshot: snap}
	if ttl > 0 {
		t := time.Now().Add(ttl)
		doc.ExpiresAt = &t
	}

	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": channelID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("ctxstore: saving snapshot: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, channelID string) (servicectx.Snapshot, error) {
	var doc mongoDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": channelID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return servicectx.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return servicectx.Snapshot{}, fmt.Errorf("ctxstore: loading snapshot: %w", err)
	}
	if doc.ExpiresAt != nil && doc.ExpiresAt.Before(time.Now()) {
		_ = s.Delete(ctx, channelID)
		return servicectx.Snapshot{}, ErrNotFound
	}
	return doc.Snapshot, nil
}

func (s *MongoStore) Delete(ctx context.Context, channelID string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": channelID}); err != nil {
		return fmt.Errorf("ctxstore: deleting snapshot: %w", err)
	}
	return nil
}
