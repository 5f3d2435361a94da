package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoUpdateRetries = 3

// mongoDocument keeps the JSON body as a string so that values round-trip
// exactly as the other backends store them.
type mongoDocument struct {
	Path      string    `bson:"_id"`
	Parent    string    `bson:"parent"`
	Data      string    `bson:"data"`
	Rev       int64     `bson:"rev"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type mongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStore(client *mongo.Client, database string) DocumentStore {
	return &mongoStore{
		client: client,
		coll:   client.Database(database).Collection("documents"),
	}
}

func (s *mongoStore) Backend() string { return "mongo" }

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *mongoStore) Get(ctx context.Context, path string, out any) (bool, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return false, err
	}
	doc, err := s.find(ctx, p)
	if err != nil || doc == nil {
		return false, err
	}
	return true, decodeDocument([]byte(doc.Data), out)
}

func (s *mongoStore) find(ctx context.Context, path string) (*mongoDocument, error) {
	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": path}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *mongoStore) Set(ctx context.Context, path string, value any) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = s.coll.UpdateOne(ctx,
		bson.M{"_id": p},
		bson.M{
			"$set": bson.M{"parent": parentOf(p), "data": string(data), "updatedAt": time.Now().UTC()},
			"$inc": bson.M{"rev": 1},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// Update reads, merges and writes back guarded by the revision counter.
func (s *mongoStore) Update(ctx context.Context, path string, fields map[string]any) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}

	for i := 0; i < mongoUpdateRetries; i++ {
		doc, err := s.find(ctx, p)
		if err != nil {
			return err
		}
		if doc == nil {
			return ErrDocumentNotFound
		}
		merged, err := mergeFields([]byte(doc.Data), fields)
		if err != nil {
			return err
		}

		res, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": p, "rev": doc.Rev},
			bson.M{"$set": bson.M{
				"data":      string(merged),
				"rev":       doc.Rev + 1,
				"updatedAt": time.Now().UTC(),
			}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			return nil
		}
	}
	return ErrWriteConflict
}

func (s *mongoStore) Delete(ctx context.Context, path string) error {
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}
	_, err = s.coll.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": p},
		bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(p+"/")}},
	}})
	return err
}

func (s *mongoStore) Children(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return nil, err
	}

	cursor, err := s.coll.Find(ctx, bson.M{"parent": p})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make(map[string]json.RawMessage)
	for cursor.Next(ctx) {
		var doc mongoDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out[lastSegment(doc.Path)] = json.RawMessage(doc.Data)
	}
	return out, cursor.Err()
}

// EnsureMongoIndexes creates the parent index used by Children.
func EnsureMongoIndexes(ctx context.Context, client *mongo.Client, database string) error {
	_, err := client.Database(database).Collection("documents").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parent", Value: 1}},
	})
	return err
}
