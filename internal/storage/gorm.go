package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	config "github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/model"
	storage_logger "github.com/plugfox/foxy-archive-server/internal/storage/storage_logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type gormStore struct {
	db *gorm.DB
}

var _ backend = (*gormStore)(nil)

func newGormStore(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*gormStore, error) {
	dialector, err := createDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(
		dialector,
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{},
			Logger:         storage_logger.NewGormSlogLogger(logger),
			NowFunc:        func() time.Time { return time.Now().UTC() },
		})
	if err != nil {
		return nil, err
	}

	// Migrations
	if err := db.WithContext(ctx).AutoMigrate(&model.Document{}); err != nil {
		return nil, err
	}

	return &gormStore{db: db}, nil
}

func (s *gormStore) findByID(ctx context.Context, id model.MessageID) (*model.Document, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).Where("id = ?", id.ToString()).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *gormStore) insert(ctx context.Context, doc *model.Document) error {
	return s.db.WithContext(ctx).Create(doc).Error
}

// Every column except the key is overwritten, so fields a variant does not
// carry are reset to NULL.
func (s *gormStore) upsert(ctx context.Context, id model.MessageID, doc *model.Document) error {
	doc.ID = id.ToString()
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(doc).Error
}

func (s *gormStore) ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
