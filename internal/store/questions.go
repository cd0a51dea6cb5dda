package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobtrackr/jobtrack-backend/internal/models"
)

// QuestionStore handles interview question CRUD in the questions collection.
type QuestionStore struct {
	col *mongo.Collection
}

func NewQuestionStore(db *mongo.Database) *QuestionStore {
	return &QuestionStore{col: db.Collection("questions")}
}

// Insert stores a question, stamping the creation time, and returns the
// generated id.
func (s *QuestionStore) Insert(ctx context.Context, q *models.Question) (string, error) {
	q.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, q)
	if err != nil {
		return "", fmt.Errorf("insert question: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

// companyFilter matches company case-insensitively as a whole string, with
// metacharacters quoted so the name is never interpreted as a pattern,
// optionally narrowed to an exact role.
func companyFilter(company, role string) bson.M {
	filter := bson.M{"company": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(company) + "$",
		Options: "i",
	}}
	if role != "" {
		filter["role"] = role
	}
	return filter
}

// ListByCompany returns questions whose company matches the given name
// case-insensitively as a whole string, optionally narrowed to an exact role.
func (s *QuestionStore) ListByCompany(ctx context.Context, company, role string) ([]models.Question, error) {
	cur, err := s.col.Find(ctx, companyFilter(company, role))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var questions []models.Question
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *QuestionStore) GetByID(ctx context.Context, id string) (*models.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var q models.Question
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Update applies a partial $set of fields to the question and stamps the
// update time. Callers are responsible for stripping protected fields first.
func (s *QuestionStore) Update(ctx context.Context, id string, fields bson.M) (matched, modified int64, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, 0, ErrNotFound
	}
	if fields == nil {
		fields = bson.M{}
	}
	fields["updatedAt"] = time.Now()
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (s *QuestionStore) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotFound
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Companies groups all questions by company and counts the records in each
// group. The projection is recomputed on every call.
func (s *QuestionStore) Companies(ctx context.Context) ([]models.CompanySummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$company"},
			{Key: "resourcesCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: "$_id"},
			{Key: "resourcesCount", Value: 1},
		}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var companies []models.CompanySummary
	if err := cur.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}
