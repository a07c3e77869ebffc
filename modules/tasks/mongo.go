package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "tasks"

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collectionName)}
}

func (s *MongoStore) FindAllSorted(ctx context.Context, ownerID string) ([]Task, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"userId": ownerID},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("tasks: find: %w", err)
	}
	defer cursor.Close(ctx)

	var result []Task
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("tasks: decode: %w", err)
	}
	return result, nil
}

func (s *MongoStore) Insert(ctx context.Context, t *Task) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.ID.IsZero() {
		t.ID = bson.NewObjectID()
	}

	if _, err := s.coll.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("tasks: insert: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, id string, patch Patch) (*Task, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Order != nil {
		set["order"] = *patch.Order
	}

	var updated Task
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tasks: update: %w", err)
	}
	return &updated, nil
}

func (s *MongoStore) BulkUpdate(ctx context.Context, items []BulkItem) (int64, error) {
	now := time.Now()

	models := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		oid, err := bson.ObjectIDFromHex(item.ID)
		if err != nil {
			// Unparseable ids behave like missing ones: skipped.
			continue
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid}).
			SetUpdate(bson.M{"$set": bson.M{
				"description": item.Description,
				"status":      item.Status,
				"order":       item.Order,
				"updatedAt":   now,
			}}))
	}

	if len(models) == 0 {
		return 0, nil
	}

	// Unordered: one failing write must not abort its siblings.
	res, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("tasks: bulk update: %w", err)
	}
	return res.MatchedCount, nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("tasks: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteByStatus(ctx context.Context, ownerID, status string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"userId": ownerID, "status": status})
	if err != nil {
		return 0, fmt.Errorf("tasks: delete by status: %w", err)
	}
	return res.DeletedCount, nil
}
