package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mim3/sales-dashboard/internal/core/domain"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
)

// UserStore is the MongoDB-backed ports.UserStore, for deployments that
// already run Mongo instead of the default SQLite file. Identity IDs stay
// numeric via a counters document so both backends expose the same ID space.
type UserStore struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the unique indexes backing the username/email
// invariants. Call once at startup.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

type userDoc struct {
	ID           int64  `bson:"_id"`
	DisplayName  string `bson:"display_name"`
	Email        string `bson:"email"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"password_hash"`
	IsAdmin      bool   `bson:"is_admin"`
	IsActive     bool   `bson:"is_active"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (d userDoc) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:             d.ID,
		DisplayName:    d.DisplayName,
		Email:          d.Email,
		Username:       d.Username,
		PasswordDigest: d.PasswordHash,
		IsAdmin:        d.IsAdmin,
		IsActive:       d.IsActive,
		CreatedAt:      unixToTime(d.CreatedAt),
		UpdatedAt:      unixToTime(d.UpdatedAt),
	}
}

func fromDomain(u *domain.Identity) userDoc {
	return userDoc{
		ID:           u.ID,
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordDigest,
		IsAdmin:      u.IsAdmin,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.Identity, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	id, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := fromDomain(identity)
	doc.ID = id
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	doc := fromDomain(identity)
	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": identity.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return s.FindByID(ctx, identity.ID)
}

func (s *UserStore) Deactivate(ctx context.Context, id int64) error {
	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().Unix()}}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) ListActive(ctx context.Context) ([]domain.Identity, error) {
	return s.findAll(ctx, bson.M{"is_active": true})
}

func (s *UserStore) ListAdmins(ctx context.Context) ([]domain.Identity, error) {
	return s.findAll(ctx, bson.M{"is_admin": true, "is_active": true})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *UserStore) findAll(ctx context.Context, filter bson.M) ([]domain.Identity, error) {
	cursor, err := s.users.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var result []domain.Identity
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		result = append(result, *doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// nextID atomically increments the user ID counter.
func (s *UserStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "user_id"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
