// Package mongo persists posts as documents in the AthletePosts collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/romariotrain/athlete-posts/internal/posts/models"
)

const Collection = "AthletePosts"

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type postDocument struct {
	ID        string             `bson:"_id"`
	AthleteID primitive.ObjectID `bson:"athlete_id"`
	MediaURL  string             `bson:"media_url"`
	Caption   string             `bson:"caption"`
	MediaType string             `bson:"media_type"`
	CreatedAt time.Time          `bson:"created_at"`
}

// toDocument rejects athlete ids that are not 24-hex ObjectIDs, which is what the
// athlete collection uses for its keys.
func toDocument(p *models.Post) (postDocument, error) {
	athleteID, err := primitive.ObjectIDFromHex(p.AthleteID)
	if err != nil {
		return postDocument{}, fmt.Errorf("%w: athlete id %q is not an ObjectID", models.ErrInvalidArgument, p.AthleteID)
	}
	return postDocument{
		ID:        p.ID.String(),
		AthleteID: athleteID,
		MediaURL:  p.MediaURL,
		Caption:   p.Caption,
		MediaType: string(p.MediaType),
		CreatedAt: p.CreatedAt,
	}, nil
}

func fromDocument(d postDocument) (*models.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("post document id: %w", err)
	}
	return &models.Post{
		ID:        id,
		AthleteID: d.AthleteID.Hex(),
		MediaURL:  d.MediaURL,
		Caption:   d.Caption,
		MediaType: models.MediaType(d.MediaType),
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

type PostRepo struct {
	coll *mongo.Collection
}

func NewPostRepo(db *mongo.Database) *PostRepo {
	return &PostRepo{coll: db.Collection(Collection)}
}

func (r *PostRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "athlete_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	return nil
}

func (r *PostRepo) Create(ctx context.Context, p *models.Post) error {
	if p == nil {
		return models.ErrInvalidArgument
	}
	doc, err := toDocument(p)
	if err != nil {
		return err
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("post insert: %w", err)
	}
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc postDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("post find: %w", err)
	}
	return fromDocument(doc)
}
