package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// MongoStore implements Store on top of a mongo collection. All writes are
// single-document $set updates, so per-user consistency is delegated to the
// server's document atomicity.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a user store backed by the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	var u User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &u, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &u, nil
}

func (s *MongoStore) Create(ctx context.Context, u *User, password string) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Email == "" {
		return ErrEmailRequired
	}

	hash, err := HashPassword(password)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	u.PasswordHash = hash

	if u.ID == "" {
		u.ID = bson.NewObjectID().Hex()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusEnabled
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// UpsertSubscription overwrites subscription and billing for the email,
// creating the account on first contact. Duplicate webhook delivery for the
// same purchase converges here: the second delivery takes the update path
// and writes an identical snapshot.
func (s *MongoStore) UpsertSubscription(ctx context.Context, p UpsertParams) (*User, bool, error) {
	email := NormalizeEmail(p.Email)
	if email == "" {
		return nil, false, ErrEmailRequired
	}

	_, err := s.FindByEmail(ctx, email)
	switch {
	case err == nil:
		updated, err := s.overwriteSubscription(ctx, email, p)
		return updated, false, err
	case errors.Is(err, ErrNotFound):
		// Fall through to the insert path.
	default:
		return nil, false, err
	}

	u := &User{
		Name:         p.Name,
		Email:        email,
		Role:         RoleUser,
		Status:       StatusEnabled,
		Subscription: p.Subscription,
		Billing:      p.Billing,
	}
	if err := s.Create(ctx, u, p.Password); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			// Lost a race against a concurrent delivery; last write wins.
			updated, err := s.overwriteSubscription(ctx, email, p)
			return updated, false, err
		}
		return nil, false, err
	}

	return u, true, nil
}

func (s *MongoStore) overwriteSubscription(ctx context.Context, email string, p UpsertParams) (*User, error) {
	var u User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"subscription": p.Subscription,
			"billing":      p.Billing,
			"updatedAt":    time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &u, nil
}

func (s *MongoStore) ExpireSubscription(ctx context.Context, email string, clearTrial bool) error {
	set := bson.M{
		"subscription.status": SubscriptionExpired,
		"updatedAt":           time.Now().UTC(),
	}
	if clearTrial {
		set["subscription.isTrialActive"] = false
	}

	_, err := s.col.UpdateOne(ctx, bson.M{"email": NormalizeEmail(email)}, bson.M{"$set": set})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) RenewSubscription(ctx context.Context, email string, r Renewal) error {
	set := bson.M{
		"subscription.status":          SubscriptionActive,
		"subscription.startDate":       r.StartDate,
		"subscription.endDate":         r.EndDate,
		"subscription.nextBillingDate": r.NextBillingDate,
		"subscription.isTrialActive":   false,
		"updatedAt":                    time.Now().UTC(),
	}
	if r.OrderID != "" {
		set["subscription.clickfunnelsOrderId"] = r.OrderID
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"email": NormalizeEmail(email)}, bson.M{"$set": set})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// expirySelector matches every record past its entitlement boundary:
// active subscriptions past endDate and open trials past trialEndDate.
// Already expired or cancelled records never match, which is what makes
// repeated sweeps idempotent.
func expirySelector(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{
			"subscription.status":  SubscriptionActive,
			"subscription.endDate": bson.M{"$lt": now},
		},
		bson.M{
			"subscription.status":        SubscriptionTrial,
			"subscription.isTrialActive": true,
			"subscription.trialEndDate":  bson.M{"$lt": now},
		},
	}}
}

func (s *MongoStore) BulkExpire(ctx context.Context, now time.Time) ([]ExpiredUser, error) {
	selector := expirySelector(now)

	cursor, err := s.col.Find(ctx, selector,
		options.Find().SetProjection(bson.M{"email": 1, "name": 1}))
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var matched []struct {
		Email string `bson:"email"`
		Name  string `bson:"name"`
	}
	if err := cursor.All(ctx, &matched); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	if len(matched) == 0 {
		return nil, nil
	}

	_, err = s.col.UpdateMany(ctx, selector, bson.M{"$set": bson.M{
		"subscription.status":        SubscriptionExpired,
		"subscription.isTrialActive": false,
		"updatedAt":                  time.Now().UTC(),
	}})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	expired := make([]ExpiredUser, 0, len(matched))
	for _, m := range matched {
		expired = append(expired, ExpiredUser{Email: m.Email, Name: m.Name})
	}
	return expired, nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]User, error) {
	cursor, err := s.col.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"password": 0}))
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return users, nil
}
