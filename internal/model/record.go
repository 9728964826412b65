package model

import (
	"slices"
	"time"

	errs "github.com/plugfox/foxy-archive-server/internal/errors"
)

// ArchiveType - the persisted discriminator of a record.
type ArchiveType string

const (
	ArchiveTypeFull              ArchiveType = "Full"
	ArchiveTypeFullDeleted       ArchiveType = "FullDeleted"
	ArchiveTypeIncomplete        ArchiveType = "Incomplete"
	ArchiveTypeIncompleteDeleted ArchiveType = "IncompleteDeleted"
	ArchiveTypeUnknownDeleted    ArchiveType = "UnknownDeleted"
)

// MessageRecord is the archived state of one message. It is implemented only
// by Full, FullDeleted, Incomplete, IncompleteDeleted and UnknownDeleted;
// consumers switch over those five types.
type MessageRecord interface {
	MessageID() MessageID
	ArchiveType() ArchiveType
	sealed()
}

// Static fields shared by the Full and Incomplete families. They are
// captured once and never updated from edits.
type Core struct {
	ID        MessageID
	ChannelID ChannelID
	GuildID   *GuildID
	AuthorID  UserID
	Timestamp time.Time
}

// Creation-only metadata, known only when the create event was observed.
type FullMeta struct {
	Kind          MessageKind
	Reference     *MessageReference
	WebhookID     *WebhookID
	ApplicationID *ApplicationID
	Interaction   *Interaction
}

// History - the append-only iteration log and the platform's edited flag.
type History struct {
	// The original body and subsequent modifications, may or may not contain
	// the full history.
	Iterations     []Iteration
	MarkedAsEdited bool
}

// Full - created while the archiver was watching.
type Full struct {
	Core
	FullMeta
	History
}

// FullDeleted - a Full record whose message was deleted later.
type FullDeleted struct {
	Core
	FullMeta
	History
	DeletedTimestamp *time.Time
}

// Incomplete - first heard of when it was edited; the original body is unknown.
type Incomplete struct {
	Core
	History
}

// IncompleteDeleted - an Incomplete record whose message was deleted later.
type IncompleteDeleted struct {
	Core
	History
	DeletedTimestamp *time.Time
}

// UnknownDeleted - a deletion for a message this archive has never seen.
type UnknownDeleted struct {
	ID               MessageID
	ChannelID        ChannelID
	GuildID          *GuildID
	DeletedTimestamp *time.Time
}

func (r Full) MessageID() MessageID              { return r.ID }
func (r FullDeleted) MessageID() MessageID       { return r.ID }
func (r Incomplete) MessageID() MessageID        { return r.ID }
func (r IncompleteDeleted) MessageID() MessageID { return r.ID }
func (r UnknownDeleted) MessageID() MessageID    { return r.ID }

func (Full) ArchiveType() ArchiveType              { return ArchiveTypeFull }
func (FullDeleted) ArchiveType() ArchiveType       { return ArchiveTypeFullDeleted }
func (Incomplete) ArchiveType() ArchiveType        { return ArchiveTypeIncomplete }
func (IncompleteDeleted) ArchiveType() ArchiveType { return ArchiveTypeIncompleteDeleted }
func (UnknownDeleted) ArchiveType() ArchiveType    { return ArchiveTypeUnknownDeleted }

func (Full) sealed()              {}
func (FullDeleted) sealed()       {}
func (Incomplete) sealed()        {}
func (IncompleteDeleted) sealed() {}
func (UnknownDeleted) sealed()    {}

// NewFull - a Full record founded by a single iteration.
func NewFull(core Core, meta FullMeta, founding Iteration) Full {
	return Full{
		Core:     core,
		FullMeta: meta,
		History: History{
			Iterations:     []Iteration{founding},
			MarkedAsEdited: false,
		},
	}
}

// NewIncomplete - an Incomplete record founded by the edit that revealed it.
func NewIncomplete(core Core, founding Iteration, markedAsEdited bool) Incomplete {
	return Incomplete{
		Core: core,
		History: History{
			Iterations:     []Iteration{founding},
			MarkedAsEdited: markedAsEdited,
		},
	}
}

// NewUnknownDeleted - a tombstone for a message id with no prior record.
func NewUnknownDeleted(id MessageID, channelID ChannelID, guildID *GuildID, deletedAt *time.Time) UnknownDeleted {
	return UnknownDeleted{
		ID:               id,
		ChannelID:        channelID,
		GuildID:          guildID,
		DeletedTimestamp: deletedAt,
	}
}

// WithIteration returns a copy with one more iteration at the end of the log.
func (r Full) WithIteration(it Iteration, markedAsEdited bool) Full {
	r.Iterations = appendIteration(r.Iterations, it)
	r.MarkedAsEdited = markedAsEdited
	return r
}

// WithIteration returns a copy with one more iteration at the end of the log.
func (r Incomplete) WithIteration(it Iteration, markedAsEdited bool) Incomplete {
	r.Iterations = appendIteration(r.Iterations, it)
	r.MarkedAsEdited = markedAsEdited
	return r
}

// IntoDeleted builds the deleted counterpart. The result shares no iteration
// storage with the receiver; callers drop the receiver afterwards.
func (r Full) IntoDeleted(deletedAt *time.Time) FullDeleted {
	return FullDeleted{
		Core:     r.Core,
		FullMeta: r.FullMeta,
		History: History{
			Iterations:     slices.Clone(r.Iterations),
			MarkedAsEdited: r.MarkedAsEdited,
		},
		DeletedTimestamp: deletedAt,
	}
}

// IntoDeleted builds the deleted counterpart. The result shares no iteration
// storage with the receiver; callers drop the receiver afterwards.
func (r Incomplete) IntoDeleted(deletedAt *time.Time) IncompleteDeleted {
	return IncompleteDeleted{
		Core: r.Core,
		History: History{
			Iterations:     slices.Clone(r.Iterations),
			MarkedAsEdited: r.MarkedAsEdited,
		},
		DeletedTimestamp: deletedAt,
	}
}

// Iterations - the iteration log of any record; UnknownDeleted has none.
func Iterations(record MessageRecord) ([]Iteration, error) {
	switch r := record.(type) {
	case Full:
		return r.Iterations, nil
	case FullDeleted:
		return r.Iterations, nil
	case Incomplete:
		return r.Iterations, nil
	case IncompleteDeleted:
		return r.Iterations, nil
	case UnknownDeleted:
		return nil, nil
	default:
		return nil, errs.WrapUnexpectedType("model.MessageRecord", record)
	}
}

// IsDeleted - whether the record is in a terminal deleted state.
func IsDeleted(record MessageRecord) (bool, error) {
	switch record.(type) {
	case Full, Incomplete:
		return false, nil
	case FullDeleted, IncompleteDeleted, UnknownDeleted:
		return true, nil
	default:
		return false, errs.WrapUnexpectedType("model.MessageRecord", record)
	}
}
