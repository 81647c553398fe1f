package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const listingsCollection = "listings"

// MongoStore implements Store on a mongo collection.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(listingsCollection)}
}

// EnsureIndexes creates the compound (userId, asin) index. Call once at
// startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "asin", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) Upsert(ctx context.Context, p UpsertParams) error {
	now := time.Now().UTC()
	set := bson.M{
		"sku":       p.SKU,
		"updatedAt": now,
	}
	if p.DraftID != "" {
		set["draftId"] = p.DraftID
	}
	if p.ListingID != "" {
		set["listingId"] = p.ListingID
	}

	_, err := s.col.UpdateOne(ctx,
		bson.M{"userId": p.UserID, "asin": p.ASIN},
		bson.M{
			"$set": set,
			"$setOnInsert": bson.M{
				"_id":       uuid.NewString(),
				"createdAt": now,
			},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, userID, asin string) (*Listing, error) {
	var l Listing
	err := s.col.FindOne(ctx, bson.M{"userId": userID, "asin": asin}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &l, nil
}

func (s *MongoStore) ASINs(ctx context.Context, userID string) ([]string, error) {
	res := s.col.Distinct(ctx, "asin", bson.M{"userId": userID})
	if err := res.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var asins []string
	if err := res.Decode(&asins); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return asins, nil
}

func (s *MongoStore) Delete(ctx context.Context, userID, asin string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"userId": userID, "asin": asin})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
