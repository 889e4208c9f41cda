package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/technoghar/repair-service/pkg/util"
)

// mongoStore keys documents by _id in a single collection.
type mongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore returns a MongoDB-backed implementation.
func NewMongoStore(collection *mongo.Collection) Store {
	return &mongoStore{collection: collection}
}

func (s *mongoStore) Get(ctx context.Context, key string) (Document, error) {
	var raw bson.M
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NewNotFound("record", map[string]any{"key": key})
	}
	if err != nil {
		return nil, util.NewStoreError("failed to read record", err)
	}
	doc := plainDocument(raw)
	delete(doc, "_id")
	return doc, nil
}

func (s *mongoStore) Set(ctx context.Context, key string, doc Document) error {
	replacement := bson.M(doc)
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, replacement, opts); err != nil {
		return util.NewStoreError("failed to write record", err)
	}
	return nil
}

func (s *mongoStore) UpdatePaths(ctx context.Context, key string, paths map[string]any) error {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": bson.M(paths)})
	if err != nil {
		return util.NewStoreError("failed to update record", err)
	}
	if result.MatchedCount == 0 {
		return util.NewNotFound("record", map[string]any{"key": key})
	}
	return nil
}

func (s *mongoStore) ScanAll(ctx context.Context) ([]KeyedDocument, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, util.NewStoreError("failed to scan collection", err)
	}
	defer cursor.Close(ctx)

	var out []KeyedDocument
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, util.NewStoreError("failed to decode record", err)
		}
		doc := plainDocument(raw)
		key, _ := doc["_id"].(string)
		delete(doc, "_id")
		out = append(out, KeyedDocument{Key: key, Doc: doc})
	}
	if err := cursor.Err(); err != nil {
		return nil, util.NewStoreError("failed to scan collection", err)
	}
	return out, nil
}

// plainDocument converts driver-specific container and integer types into the
// plain map/slice/int shapes the Document contract promises.
func plainDocument(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		doc[k] = plainValue(v)
	}
	return doc
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plainDocument(t)
	case bson.D:
		doc := make(Document, len(t))
		for _, elem := range t {
			doc[elem.Key] = plainValue(elem.Value)
		}
		return doc
	case bson.A:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = plainValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = plainValue(elem)
		}
		return out
	case int32:
		return int(t)
	case int64:
		return int(t)
	case primitive.DateTime:
		return t.Time()
	default:
		return v
	}
}
