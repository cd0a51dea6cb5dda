package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobtrackr/jobtrack-backend/internal/models"
)

// UserStore handles account documents in the users collection.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

// FindByIdentifier looks up a user whose email or username equals identifier.
// Returns (nil, nil) when no user matches.
func (s *UserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
	}}
	return s.findOne(ctx, filter)
}

// FindConflicting returns a user already holding the given email or username,
// or (nil, nil) when both are free. A single combined lookup so an
// email collision is reported over a username collision.
func (s *UserStore) FindConflicting(ctx context.Context, email, username string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}}
	return s.findOne(ctx, filter)
}

// FindConflictingExcept is FindConflicting restricted to users other than id,
// used when an existing account changes its email or username.
func (s *UserStore) FindConflictingExcept(ctx context.Context, id, email, username string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	filter := bson.M{
		"_id": bson.M{"$ne": oid},
		"$or": bson.A{
			bson.M{"email": email},
			bson.M{"username": username},
		},
	}
	return s.findOne(ctx, filter)
}

// FindByID resolves a 24-character hex id to a user. Returns (nil, nil) when
// the id is malformed or matches nothing.
func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert stores a new user, stamping the creation time.
func (s *UserStore) Insert(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now()
	_, err := s.col.InsertOne(ctx, u)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateProfile applies name/username/email changes and stamps the update
// time. The returned count is zero when the id resolves to no user.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"firstName": req.FirstName,
		"lastName":  req.LastName,
		"username":  req.Username,
		"email":     req.Email,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// UpdatePassword replaces the stored password hash and stamps the update time.
func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now(),
	}})
	return err
}
