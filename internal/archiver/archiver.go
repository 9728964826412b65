// Package archiver receives decoded gateway events and keeps exactly one
// archived document per message up to date.
package archiver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/plugfox/foxy-archive-server/internal/config"
	"github.com/plugfox/foxy-archive-server/internal/converters"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/plugfox/foxy-archive-server/internal/merge"
	"github.com/plugfox/foxy-archive-server/internal/metrics"
	"github.com/plugfox/foxy-archive-server/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/plugfox/foxy-archive-server/internal/archiver"

// Metric event names.
const (
	MetricStored              = "message_stored"
	MetricSkipped             = "message_skipped"
	MetricIgnored             = "message_ignored"
	MetricTranslationFailed   = "translation_failed"
	MetricStoreFailed         = "store_failed"
	MetricBulkDeleteUnhandled = "bulk_delete_unhandled"
)

// Store is the document store the archiver reads and writes.
// FindByID returns a nil record when the message was never archived.
type Store interface {
	FindByID(ctx context.Context, id model.MessageID) (model.MessageRecord, error)
	Insert(ctx context.Context, record model.MessageRecord) error
	UpsertByID(ctx context.Context, id model.MessageID, record model.MessageRecord) error
}

// Outcome of handling one event.
type Outcome string

const (
	OutcomeStored    Outcome = "stored"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeFailed    Outcome = "failed"
	OutcomeUnhandled Outcome = "unhandled"
)

type Archiver struct {
	store     Store
	engine    *merge.Engine
	filter    filter
	locks     *keyedMutex // nil when events are not serialized per message
	decompose bool
	metrics   metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

func New(store Store, session uuid.UUID, cfg *config.ArchiverConfig, m metrics.Metrics, logger *slog.Logger) *Archiver {
	a := &Archiver{
		store:     store,
		engine:    merge.New(session),
		filter:    newFilter(cfg),
		decompose: cfg.DecomposeBulkDelete,
		metrics:   m,
		logger:    logger.With(slog.String("session_id", session.String())),
		tracer:    otel.Tracer(tracerName),
	}
	if !cfg.DisablePerMessageLock {
		a.locks = newKeyedMutex()
	}
	return a
}

// Session - the id stamped on every iteration captured by this archiver.
func (a *Archiver) Session() uuid.UUID {
	return a.engine.Session()
}

// Handle folds one event into the store. Every failure is logged and
// counted; nothing is returned that the caller has to act on.
func (a *Archiver) Handle(ctx context.Context, ev event.Event) (outcome Outcome) {
	ctx, span := a.tracer.Start(ctx, "archiver.handle "+ev.Name(), trace.WithAttributes(
		attribute.String("event", ev.Name()),
		attribute.String("channel_id", ev.Channel().ToString()),
		attribute.String("message_id", event.MessageID(ev).ToString()),
	))
	defer func() {
		span.SetAttributes(attribute.String("outcome", string(outcome)))
		span.End()
	}()

	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorContext(ctx, "Recovered from panic while archiving",
				slog.String("event", ev.Name()),
				slog.String("error", fmt.Sprintf("%v", r)),
			)
			span.SetStatus(codes.Error, "panic")
			outcome = OutcomeFailed
		}
	}()

	if a.filter.ignored(ev.Channel(), ev.Guild()) {
		a.metrics.LogChannelEvent(MetricIgnored, ev.Channel().ToString(), map[string]interface{}{"count": 1})
		return OutcomeIgnored
	}

	if bulk, ok := ev.(event.BulkDelete); ok {
		return a.handleBulk(ctx, bulk)
	}

	return a.handleOne(ctx, ev)
}

func (a *Archiver) handleBulk(ctx context.Context, bulk event.BulkDelete) Outcome {
	if !a.decompose {
		a.logger.WarnContext(ctx, "Bulk delete left unhandled",
			slog.String("channel_id", bulk.ChannelID.ToString()),
			slog.Int("count", len(bulk.IDs)),
		)
		a.metrics.LogChannelEvent(MetricBulkDeleteUnhandled, bulk.ChannelID.ToString(), map[string]interface{}{"count": len(bulk.IDs)})
		return OutcomeUnhandled
	}

	result := OutcomeStored
	for _, del := range bulk.Split() {
		if outcome := a.handleOne(ctx, del); outcome != OutcomeStored && result == OutcomeStored {
			result = outcome
		}
	}
	return result
}

func (a *Archiver) handleOne(ctx context.Context, ev event.Event) Outcome {
	begin := time.Now()
	id := event.MessageID(ev)
	channelID := ev.Channel().ToString()
	logger := a.logger.With(
		slog.String("event", ev.Name()),
		slog.String("message_id", id.ToString()),
		slog.String("channel_id", channelID),
	)

	if a.locks != nil {
		unlock := a.locks.Lock(id.ToString())
		defer unlock()
	}

	existing, err := a.store.FindByID(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "Cannot look up archived message", slog.String("error", err.Error()))
		a.metrics.LogChannelEvent(MetricStoreFailed, channelID, map[string]interface{}{"count": 1})
		recordError(ctx, err)
		return OutcomeFailed
	}

	result, err := a.engine.Apply(existing, ev)
	if err != nil {
		switch {
		case errors.Is(err, converters.ErrMissingAuthor), errors.Is(err, converters.ErrMissingTimestamp):
			logger.WarnContext(ctx, "Edit of an unknown message can not be archived", slog.String("error", err.Error()))
			a.metrics.LogChannelEvent(MetricTranslationFailed, channelID, map[string]interface{}{"count": 1})
		default:
			logger.ErrorContext(ctx, "Cannot merge event", slog.String("error", err.Error()))
			a.metrics.LogChannelEvent(MetricStoreFailed, channelID, map[string]interface{}{"count": 1})
		}
		recordError(ctx, err)
		return OutcomeFailed
	}

	switch result.Action {
	case merge.ActionSkip:
		logger.WarnContext(ctx, "Unexpected event skipped",
			slog.String("archive_type", archiveTypeOf(existing)),
			slog.String("reason", result.Reason.Error()),
		)
		a.metrics.LogChannelEvent(MetricSkipped, channelID, map[string]interface{}{"count": 1})
		return OutcomeSkipped
	case merge.ActionInsert:
		err = a.store.Insert(ctx, result.Record)
	case merge.ActionUpsert:
		err = a.store.UpsertByID(ctx, id, result.Record)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Cannot store archived message",
			slog.String("action", result.Action.String()),
			slog.String("error", err.Error()),
		)
		a.metrics.LogChannelEvent(MetricStoreFailed, channelID, map[string]interface{}{"count": 1})
		recordError(ctx, err)
		return OutcomeFailed
	}

	logger.DebugContext(ctx, "Message archived",
		slog.String("action", result.Action.String()),
		slog.String("archive_type", string(result.Record.ArchiveType())),
	)
	a.metrics.LogChannelEvent(MetricStored, channelID, map[string]interface{}{
		"count":       1,
		"duration_ms": time.Since(begin).Milliseconds(),
	})
	return OutcomeStored
}

func recordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func archiveTypeOf(record model.MessageRecord) string {
	if record == nil {
		return ""
	}
	return string(record.ArchiveType())
}
