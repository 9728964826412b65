package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/model"
)

var errorIDMismatch = errors.New("record id does not match the upsert key")

// backend is implemented by the gorm and mongo stores. It only moves
// documents; encoding and timeouts are handled by Storage.
type backend interface {
	findByID(ctx context.Context, id model.MessageID) (*model.Document, error)
	insert(ctx context.Context, doc *model.Document) error
	upsert(ctx context.Context, id model.MessageID, doc *model.Document) error
	ping(ctx context.Context) error
	close(ctx context.Context) error
}

// Storage - the archive document store, one document per message id.
type Storage struct {
	backend backend
	driver  string
	timeout time.Duration
}

// Startup work (connecting, migrations, indexes) gets a few operation timeouts.
const connectTimeoutFactor = 3

func connectTimeout(cfg *config.DatabaseConfig) time.Duration {
	return connectTimeoutFactor * cfg.Timeout
}

func New(config *config.Config, logger *slog.Logger) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout(&config.Database))
	defer cancel()

	driver := strings.ToLower(config.Database.Driver)

	var (
		b   backend
		err error
	)
	switch driver {
	case "mongodb":
		b, err = newMongoStore(ctx, &config.Database, logger)
	default:
		b, err = newGormStore(ctx, &config.Database, logger)
	}
	if err != nil {
		return nil, err
	}

	return &Storage{backend: b, driver: driver, timeout: config.Database.Timeout}, nil
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Driver - the configured database driver
func (s *Storage) Driver() string {
	return s.driver
}

// FindDocument - get the stored document by message id, nil if absent
func (s *Storage) FindDocument(ctx context.Context, id model.MessageID) (*model.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc, err := s.backend.findByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find message %s: %w", id, err)
	}
	return doc, nil
}

// FindByID - get the record by message id, nil if absent
func (s *Storage) FindByID(ctx context.Context, id model.MessageID) (model.MessageRecord, error) {
	doc, err := s.FindDocument(ctx, id)
	if err != nil || doc == nil {
		return nil, err
	}

	record, err := model.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("decode message %s: %w", id, err)
	}
	return record, nil
}

// Insert - store a record for a message id that has no document yet
func (s *Storage) Insert(ctx context.Context, record model.MessageRecord) error {
	doc, err := model.Encode(record)
	if err != nil {
		return fmt.Errorf("encode message %s: %w", record.MessageID(), err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.backend.insert(ctx, doc); err != nil {
		return fmt.Errorf("insert message %s: %w", doc.ID, err)
	}
	return nil
}

// UpsertByID - replace the whole document stored under the id, or create it
func (s *Storage) UpsertByID(ctx context.Context, id model.MessageID, record model.MessageRecord) error {
	if record.MessageID() != id {
		return fmt.Errorf("%w: %s != %s", errorIDMismatch, record.MessageID(), id)
	}

	doc, err := model.Encode(record)
	if err != nil {
		return fmt.Errorf("encode message %s: %w", id, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.backend.upsert(ctx, id, doc); err != nil {
		return fmt.Errorf("upsert message %s: %w", id, err)
	}
	return nil
}

// Ping - check the database connection
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.backend.ping(ctx)
}

// Close - close the database connection
func (s *Storage) Close() error {
	ctx, cancel := s.withTimeout(context.Background())
	defer cancel()

	return s.backend.close(ctx)
}
