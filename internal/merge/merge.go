// Package merge folds a lifecycle event into the stored state of a message.
//
// The engine is pure: it never touches the store or the clock. Every
// timestamp it needs comes from the event itself.
package merge

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/plugfox/foxy-archive-server/internal/converters"
	errs "github.com/plugfox/foxy-archive-server/internal/errors"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/plugfox/foxy-archive-server/internal/model"
)

// Anomalies. A skipped Result carries one of these as its Reason.
var (
	ErrDuplicateCreate      = errors.New("create for an already archived message")
	ErrEditAfterDelete      = errors.New("edit for an already deleted message")
	ErrDeleteAfterDelete    = errors.New("delete for an already deleted message")
	ErrBulkDeleteUnresolved = errors.New("bulk delete must be resolved by the caller")
)

type Action int

const (
	ActionSkip Action = iota
	ActionInsert
	ActionUpsert
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionInsert:
		return "insert"
	case ActionUpsert:
		return "upsert"
	default:
		return "unknown"
	}
}

// Result of a merge. Record is nil when Action is ActionSkip.
type Result struct {
	Action Action
	Record model.MessageRecord
	Reason error
}

func skip(reason error) Result {
	return Result{Action: ActionSkip, Reason: reason}
}

func insert(record model.MessageRecord) Result {
	return Result{Action: ActionInsert, Record: record}
}

func upsert(record model.MessageRecord) Result {
	return Result{Action: ActionUpsert, Record: record}
}

// Engine stamps every iteration it creates with the session it was built for.
type Engine struct {
	session uuid.UUID
}

func New(session uuid.UUID) *Engine {
	return &Engine{session: session}
}

func (e *Engine) Session() uuid.UUID {
	return e.session
}

// Apply computes the next state of a message. A nil existing record means the
// store has never seen the message. Errors are translation or type errors;
// anomalies are reported as skipped results instead.
func (e *Engine) Apply(existing model.MessageRecord, ev event.Event) (Result, error) {
	switch ev := ev.(type) {
	case event.Create:
		return e.applyCreate(existing, ev)
	case event.Edit:
		return e.applyEdit(existing, ev)
	case event.Delete:
		return e.applyDelete(existing, ev)
	case event.BulkDelete:
		return skip(ErrBulkDeleteUnresolved), nil
	default:
		return Result{}, errs.WrapUnexpectedType("event.Event", ev)
	}
}

func (e *Engine) applyCreate(existing model.MessageRecord, ev event.Create) (Result, error) {
	if existing != nil {
		return skip(ErrDuplicateCreate), nil
	}
	return insert(converters.FullFromCreation(ev, e.session)), nil
}

func (e *Engine) applyEdit(existing model.MessageRecord, ev event.Edit) (Result, error) {
	observedAt := ev.ObservedAt()

	switch record := existing.(type) {
	case nil:
		incomplete, err := converters.IncompleteFromEdit(ev.Update, observedAt, e.session)
		if err != nil {
			return Result{}, err
		}
		incomplete.Iterations[0].Connection = ev.Connection
		return upsert(incomplete), nil
	case model.Full:
		it := e.nextIteration(record.Iterations, ev, observedAt)
		return upsert(record.WithIteration(it, record.MarkedAsEdited || ev.Edited())), nil
	case model.Incomplete:
		it := e.nextIteration(record.Iterations, ev, observedAt)
		return upsert(record.WithIteration(it, record.MarkedAsEdited || ev.Edited())), nil
	case model.FullDeleted, model.IncompleteDeleted, model.UnknownDeleted:
		return skip(ErrEditAfterDelete), nil
	default:
		return Result{}, errs.WrapUnexpectedType("model.MessageRecord", existing)
	}
}

func (e *Engine) applyDelete(existing model.MessageRecord, ev event.Delete) (Result, error) {
	deletedAt := ev.ReceivedAt

	switch record := existing.(type) {
	case nil:
		return upsert(model.NewUnknownDeleted(ev.ID, ev.ChannelID, ev.GuildID, &deletedAt)), nil
	case model.Full:
		return upsert(record.IntoDeleted(&deletedAt)), nil
	case model.Incomplete:
		return upsert(record.IntoDeleted(&deletedAt)), nil
	case model.FullDeleted, model.IncompleteDeleted, model.UnknownDeleted:
		return skip(ErrDeleteAfterDelete), nil
	default:
		return Result{}, errs.WrapUnexpectedType("model.MessageRecord", existing)
	}
}

// The first iteration appended after another session's or another gateway
// connection's iteration may follow revisions nobody observed.
func (e *Engine) nextIteration(history []model.Iteration, ev event.Edit, observedAt time.Time) model.Iteration {
	it := converters.IterationFromEdit(ev.Update, observedAt, e.session)
	it.Connection = ev.Connection
	if n := len(history); n > 0 {
		last := history[n-1]
		if last.SessionID != e.session || last.Connection != ev.Connection {
			it.MayContainGap = true
		}
	}
	return it
}
