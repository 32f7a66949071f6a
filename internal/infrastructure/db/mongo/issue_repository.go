package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/ports"
)

const collectionIssues = "issues"

type IssueRepository struct {
	col *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{col: db.Collection(collectionIssues)}
}

// Create inserts a new issue document.
func (r *IssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, issue)
	return err
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var issue domain.Issue
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIssueNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// List returns a page of issues, newest first, plus the total match count.
func (r *IssueRepository) List(ctx context.Context, filter ports.ListIssuesFilter) ([]*domain.Issue, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.NeedsReview != nil {
		query["needs_review"] = *filter.NeedsReview
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	issues := make([]*domain.Issue, 0)
	for cursor.Next(ctx) {
		var issue domain.Issue
		if err := cursor.Decode(&issue); err != nil {
			return nil, 0, err
		}
		issues = append(issues, &issue)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// Update applies the non-nil fields of update and returns the new document.
func (r *IssueRepository) Update(ctx context.Context, id string, update ports.IssueUpdate) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.PhotoURL != nil {
		set["photo_url"] = *update.PhotoURL
	}
	if update.ResolvedPhotoURL != nil {
		set["resolved_photo_url"] = *update.ResolvedPhotoURL
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	if update.NeedsReview != nil {
		set["needs_review"] = *update.NeedsReview
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var issue domain.Issue
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&issue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIssueNotFound
		}
		return nil, err
	}
	return &issue, nil
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing list queries.
func (r *IssueRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "needs_review", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
