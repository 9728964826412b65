// Package event holds the decoded message lifecycle events the archiver
// consumes. The gateway adapter produces them; nothing here knows about the
// wire format.
package event

import (
	"time"

	"github.com/plugfox/foxy-archive-server/internal/model"
)

// Event is implemented by Create, Edit, Delete and BulkDelete.
type Event interface {
	Name() string
	Channel() model.ChannelID
	Guild() *model.GuildID
	sealed()
}

// Message - a complete message as delivered by a creation event.
type Message struct {
	ID            model.MessageID
	ChannelID     model.ChannelID
	GuildID       *model.GuildID
	AuthorID      model.UserID
	Timestamp     time.Time
	Kind          model.MessageKind
	Reference     *model.MessageReference
	WebhookID     *model.WebhookID
	ApplicationID *model.ApplicationID
	Interaction   *model.Interaction

	Content      string
	Attachments  []model.Attachment
	Embeds       []model.Embed
	Components   []model.Component
	StickerItems []model.StickerItem
}

// MessageUpdate - a partial message as delivered by an edit event. Nil
// pointers and nil slices mean the platform did not report that facet.
type MessageUpdate struct {
	ID              model.MessageID
	ChannelID       model.ChannelID
	GuildID         *model.GuildID
	AuthorID        *model.UserID
	Timestamp       *time.Time
	EditedTimestamp *time.Time

	Content      *string
	Attachments  []model.Attachment
	Embeds       []model.Embed
	Components   []model.Component
	StickerItems []model.StickerItem
}

// Create - a message was posted.
type Create struct {
	Message    Message
	ReceivedAt time.Time
	Connection uint32 // Gateway connection the event arrived on.
}

// Edit - a message was updated.
type Edit struct {
	Update     MessageUpdate
	ReceivedAt time.Time
	Connection uint32 // Gateway connection the event arrived on.
}

// Delete - a single message was deleted.
type Delete struct {
	ID         model.MessageID
	ChannelID  model.ChannelID
	GuildID    *model.GuildID
	ReceivedAt time.Time
}

// BulkDelete - several messages of one channel were deleted at once.
type BulkDelete struct {
	IDs        []model.MessageID
	ChannelID  model.ChannelID
	GuildID    *model.GuildID
	ReceivedAt time.Time
}

func (Create) Name() string     { return "create" }
func (Edit) Name() string       { return "edit" }
func (Delete) Name() string     { return "delete" }
func (BulkDelete) Name() string { return "bulk_delete" }

func (e Create) Channel() model.ChannelID     { return e.Message.ChannelID }
func (e Edit) Channel() model.ChannelID       { return e.Update.ChannelID }
func (e Delete) Channel() model.ChannelID     { return e.ChannelID }
func (e BulkDelete) Channel() model.ChannelID { return e.ChannelID }

func (e Create) Guild() *model.GuildID     { return e.Message.GuildID }
func (e Edit) Guild() *model.GuildID       { return e.Update.GuildID }
func (e Delete) Guild() *model.GuildID     { return e.GuildID }
func (e BulkDelete) Guild() *model.GuildID { return e.GuildID }

func (Create) sealed()     {}
func (Edit) sealed()       {}
func (Delete) sealed()     {}
func (BulkDelete) sealed() {}

// ObservedAt - the edit's own timestamp if the platform sent one, otherwise
// the time the event was received.
func (e Edit) ObservedAt() time.Time {
	if e.Update.EditedTimestamp != nil {
		return *e.Update.EditedTimestamp
	}
	return e.ReceivedAt
}

// Edited reports whether the platform flagged this update as a content edit.
func (e Edit) Edited() bool {
	return e.Update.EditedTimestamp != nil
}

// Split decomposes a bulk deletion into single deletions sharing its receipt time.
func (e BulkDelete) Split() []Delete {
	out := make([]Delete, 0, len(e.IDs))
	for _, id := range e.IDs {
		out = append(out, Delete{
			ID:         id,
			ChannelID:  e.ChannelID,
			GuildID:    e.GuildID,
			ReceivedAt: e.ReceivedAt,
		})
	}
	return out
}

// MessageID - the message an event is about; empty for bulk deletions.
func MessageID(ev Event) model.MessageID {
	switch e := ev.(type) {
	case Create:
		return e.Message.ID
	case Edit:
		return e.Update.ID
	case Delete:
		return e.ID
	default:
		return ""
	}
}
