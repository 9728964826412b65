package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	config "github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoCollection = "messages"

type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ backend = (*mongoStore)(nil)

func newMongoStore(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*mongoStore, error) {
	opts := options.Client().
		ApplyURI(cfg.Connection).
		SetTimeout(cfg.Timeout).
		SetMonitor(newMongoMonitor(logger))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	collection := client.Database(cfg.Name).Collection(mongoCollection)

	// One document per message id
	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_unique"),
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &mongoStore{client: client, collection: collection}, nil
}

func (s *mongoStore) findByID(ctx context.Context, id model.MessageID) (*model.Document, error) {
	var doc model.Document
	err := s.collection.FindOne(ctx, bson.M{"id": id.ToString()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *mongoStore) insert(ctx context.Context, doc *model.Document) error {
	doc.StoredAt = time.Now().UnixMilli()
	_, err := s.collection.InsertOne(ctx, doc)
	return err
}

func (s *mongoStore) upsert(ctx context.Context, id model.MessageID, doc *model.Document) error {
	doc.ID = id.ToString()
	doc.StoredAt = time.Now().UnixMilli()
	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *mongoStore) ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *mongoStore) close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// newMongoMonitor reports failed commands through slog.
func newMongoMonitor(logger *slog.Logger) *event.CommandMonitor {
	return &event.CommandMonitor{
		Failed: func(ctx context.Context, e *event.CommandFailedEvent) {
			logger.WarnContext(ctx, "MongoDB command failed",
				slog.String("command", e.CommandName),
				slog.String("database", e.DatabaseName),
				slog.Duration("elapsed", e.Duration),
				slog.String("error", e.Failure),
			)
		},
	}
}
