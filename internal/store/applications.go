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

// ApplicationStore handles job application CRUD in the applications
// collection. Every query filters on the owner's email so one user's records
// are invisible to another.
type ApplicationStore struct {
	col *mongo.Collection
}

func NewApplicationStore(db *mongo.Database) *ApplicationStore {
	return &ApplicationStore{col: db.Collection("applications")}
}

func (s *ApplicationStore) Insert(ctx context.Context, a *models.Application) (string, error) {
	a.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, a)
	if err != nil {
		return "", fmt.Errorf("insert application: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *ApplicationStore) ListByOwner(ctx context.Context, email string) ([]models.Application, error) {
	cur, err := s.col.Find(ctx, bson.M{"userEmail": email})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *ApplicationStore) GetByID(ctx context.Context, id, email string) (*models.Application, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var a models.Application
	err = s.col.FindOne(ctx, bson.M{"_id": oid, "userEmail": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Update applies a partial $set to the caller's own application and stamps
// the update time. The returned count is zero when no owned record matches.
func (s *ApplicationStore) Update(ctx context.Context, id, email string, fields bson.M) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotFound
	}
	if fields == nil {
		fields = bson.M{}
	}
	fields["updatedAt"] = time.Now()
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid, "userEmail": email}, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s *ApplicationStore) Delete(ctx context.Context, id, email string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "userEmail": email})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
