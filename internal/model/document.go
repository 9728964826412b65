package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	errs "github.com/plugfox/foxy-archive-server/internal/errors"
)

// Document - the persisted form of a MessageRecord, one per message id.
// The same struct is written to MongoDB (bson) and to SQL tables (gorm);
// nested values go through gorm's json serializer.
type Document struct {
	ID          string      `gorm:"primaryKey"    json:"id"           bson:"id"`
	ArchiveType ArchiveType `gorm:"index;not null" json:"archive_type" bson:"archive_type"`
	ChannelID   string      `gorm:"index"         json:"channel_id"   bson:"channel_id"`
	GuildID     *string     `gorm:"index"         json:"guild_id"     bson:"guild_id"`

	// Static fields of the Full and Incomplete families
	AuthorID         string            `json:"author_id,omitempty"         bson:"author_id,omitempty"`
	Timestamp        *int64            `json:"timestamp,omitempty"         bson:"timestamp,omitempty"` // Unix milliseconds.
	Kind             *string           `json:"type,omitempty"              bson:"type,omitempty"` // MessageKind name.
	MessageReference *MessageReference `gorm:"serializer:json;type:text" json:"message_reference,omitempty" bson:"message_reference,omitempty"`
	WebhookID        *string           `json:"webhook_id,omitempty"        bson:"webhook_id,omitempty"`
	ApplicationID    *string           `json:"application_id,omitempty"    bson:"application_id,omitempty"`
	Interaction      *Interaction      `gorm:"serializer:json;type:text" json:"interaction,omitempty"       bson:"interaction,omitempty"`

	// Tracked when editing or deleting
	Iterations       []IterationDocument `gorm:"serializer:json;type:text" json:"iterations,omitempty" bson:"iterations,omitempty"`
	MarkedAsEdited   bool                `json:"marked_as_edited"  bson:"marked_as_edited"`
	DeletedTimestamp *int64              `json:"deleted_timestamp" bson:"deleted_timestamp"` // Unix milliseconds.

	// Meta fields
	StoredAt int64 `gorm:"autoUpdateTime:milli" json:"stored_at" bson:"stored_at"` // Unix milliseconds of the last write.
}

// IterationDocument - the persisted form of an Iteration.
type IterationDocument struct {
	Timestamp     int64  `json:"timestamp"            bson:"timestamp"` // Unix milliseconds.
	MayContainGap bool   `json:"may_contain_gap"      bson:"may_contain_gap"`
	SessionID     string `json:"session_id"           bson:"session_id"`
	Connection    uint32 `json:"connection,omitempty" bson:"connection,omitempty"`

	Content      string        `json:"content"       bson:"content"`
	Attachments  []Attachment  `json:"attachments"   bson:"attachments"`
	Embeds       []Embed       `json:"embeds"        bson:"embeds"`
	Components   []Component   `json:"components"    bson:"components"`
	StickerItems []StickerItem `json:"sticker_items" bson:"sticker_items"`
}

// TableName - set the table name.
func (Document) TableName() string {
	return "archived_messages"
}

// GetID - get the message ID.
func (doc *Document) GetID() MessageID {
	return MessageID(doc.ID)
}

// Encode converts a record into its persisted form.
func Encode(record MessageRecord) (*Document, error) {
	switch r := record.(type) {
	case Full:
		doc := encodeCore(ArchiveTypeFull, r.Core)
		encodeMeta(doc, r.FullMeta)
		encodeHistory(doc, r.History)
		return doc, nil
	case FullDeleted:
		doc := encodeCore(ArchiveTypeFullDeleted, r.Core)
		encodeMeta(doc, r.FullMeta)
		encodeHistory(doc, r.History)
		doc.DeletedTimestamp = toOptionalMillis(r.DeletedTimestamp)
		return doc, nil
	case Incomplete:
		doc := encodeCore(ArchiveTypeIncomplete, r.Core)
		encodeHistory(doc, r.History)
		return doc, nil
	case IncompleteDeleted:
		doc := encodeCore(ArchiveTypeIncompleteDeleted, r.Core)
		encodeHistory(doc, r.History)
		doc.DeletedTimestamp = toOptionalMillis(r.DeletedTimestamp)
		return doc, nil
	case UnknownDeleted:
		return &Document{
			ID:               string(r.ID),
			ArchiveType:      ArchiveTypeUnknownDeleted,
			ChannelID:        string(r.ChannelID),
			GuildID:          (*string)(r.GuildID),
			DeletedTimestamp: toOptionalMillis(r.DeletedTimestamp),
		}, nil
	default:
		return nil, errs.WrapUnexpectedType("model.MessageRecord", record)
	}
}

// Decode converts a persisted document back into a record.
func Decode(doc *Document) (MessageRecord, error) {
	if doc == nil {
		return nil, errs.WrapUnexpectedType("*model.Document", doc)
	}
	if doc.ID == "" {
		return nil, errs.WrapMissingField(string(doc.ArchiveType), "id")
	}

	switch doc.ArchiveType {
	case ArchiveTypeFull, ArchiveTypeFullDeleted, ArchiveTypeIncomplete, ArchiveTypeIncompleteDeleted:
	case ArchiveTypeUnknownDeleted:
		return UnknownDeleted{
			ID:               MessageID(doc.ID),
			ChannelID:        ChannelID(doc.ChannelID),
			GuildID:          (*GuildID)(doc.GuildID),
			DeletedTimestamp: fromOptionalMillis(doc.DeletedTimestamp),
		}, nil
	default:
		return nil, errs.WrapUnknownArchiveType(string(doc.ArchiveType))
	}

	core, err := decodeCore(doc)
	if err != nil {
		return nil, err
	}
	history, err := decodeHistory(doc)
	if err != nil {
		return nil, err
	}

	switch doc.ArchiveType {
	case ArchiveTypeFull:
		meta, err := decodeMeta(doc)
		if err != nil {
			return nil, err
		}
		return Full{Core: core, FullMeta: meta, History: history}, nil
	case ArchiveTypeFullDeleted:
		meta, err := decodeMeta(doc)
		if err != nil {
			return nil, err
		}
		return FullDeleted{
			Core:             core,
			FullMeta:         meta,
			History:          history,
			DeletedTimestamp: fromOptionalMillis(doc.DeletedTimestamp),
		}, nil
	case ArchiveTypeIncomplete:
		return Incomplete{Core: core, History: history}, nil
	default:
		return IncompleteDeleted{
			Core:             core,
			History:          history,
			DeletedTimestamp: fromOptionalMillis(doc.DeletedTimestamp),
		}, nil
	}
}

func encodeCore(archiveType ArchiveType, core Core) *Document {
	ts := toMillis(core.Timestamp)
	return &Document{
		ID:          string(core.ID),
		ArchiveType: archiveType,
		ChannelID:   string(core.ChannelID),
		GuildID:     (*string)(core.GuildID),
		AuthorID:    string(core.AuthorID),
		Timestamp:   &ts,
	}
}

func encodeMeta(doc *Document, meta FullMeta) {
	kind := meta.Kind.String()
	doc.Kind = &kind
	doc.MessageReference = meta.Reference
	doc.WebhookID = (*string)(meta.WebhookID)
	doc.ApplicationID = (*string)(meta.ApplicationID)
	doc.Interaction = meta.Interaction
}

func encodeHistory(doc *Document, history History) {
	doc.MarkedAsEdited = history.MarkedAsEdited
	doc.Iterations = make([]IterationDocument, 0, len(history.Iterations))
	for _, it := range history.Iterations {
		doc.Iterations = append(doc.Iterations, IterationDocument{
			Timestamp:     toMillis(it.Timestamp),
			MayContainGap: it.MayContainGap,
			SessionID:     it.SessionID.String(),
			Connection:    it.Connection,
			Content:       it.Content,
			Attachments:   it.Attachments,
			Embeds:        it.Embeds,
			Components:    it.Components,
			StickerItems:  it.StickerItems,
		})
	}
}

func decodeCore(doc *Document) (Core, error) {
	if doc.AuthorID == "" {
		return Core{}, errs.WrapMissingField(string(doc.ArchiveType), "author_id")
	}
	if doc.Timestamp == nil {
		return Core{}, errs.WrapMissingField(string(doc.ArchiveType), "timestamp")
	}
	return Core{
		ID:        MessageID(doc.ID),
		ChannelID: ChannelID(doc.ChannelID),
		GuildID:   (*GuildID)(doc.GuildID),
		AuthorID:  UserID(doc.AuthorID),
		Timestamp: fromMillis(*doc.Timestamp),
	}, nil
}

func decodeMeta(doc *Document) (FullMeta, error) {
	if doc.Kind == nil {
		return FullMeta{}, errs.WrapMissingField(string(doc.ArchiveType), "type")
	}
	return FullMeta{
		Kind:          KindFromName(*doc.Kind),
		Reference:     doc.MessageReference,
		WebhookID:     (*WebhookID)(doc.WebhookID),
		ApplicationID: (*ApplicationID)(doc.ApplicationID),
		Interaction:   doc.Interaction,
	}, nil
}

func decodeHistory(doc *Document) (History, error) {
	if len(doc.Iterations) == 0 {
		return History{}, errs.WrapMissingField(string(doc.ArchiveType), "iterations")
	}
	iterations := make([]Iteration, 0, len(doc.Iterations))
	for i, it := range doc.Iterations {
		session, err := uuid.Parse(it.SessionID)
		if err != nil {
			return History{}, fmt.Errorf("iteration %d of message %s: invalid session id: %w", i, doc.ID, err)
		}
		iterations = append(iterations, Iteration{
			Timestamp:     fromMillis(it.Timestamp),
			MayContainGap: it.MayContainGap,
			SessionID:     session,
			Connection:    it.Connection,
			Content:       it.Content,
			Attachments:   it.Attachments,
			Embeds:        it.Embeds,
			Components:    it.Components,
			StickerItems:  it.StickerItems,
		})
	}
	return History{Iterations: iterations, MarkedAsEdited: doc.MarkedAsEdited}, nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toOptionalMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := toMillis(*t)
	return &ms
}

func fromOptionalMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := fromMillis(*ms)
	return &t
}
