package converters

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/plugfox/foxy-archive-server/internal/model"
)

var (
	ErrMissingAuthor    = errors.New("edit payload has no author")
	ErrMissingTimestamp = errors.New("edit payload has no creation timestamp")
)

// Convert a creation event into a full record with one founding iteration.
func FullFromCreation(ev event.Create, session uuid.UUID) model.Full {
	m := ev.Message

	core := model.Core{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		AuthorID:  m.AuthorID,
		Timestamp: m.Timestamp,
	}

	meta := model.FullMeta{
		Kind:          m.Kind,
		Reference:     m.Reference,
		WebhookID:     m.WebhookID,
		ApplicationID: m.ApplicationID,
		Interaction:   m.Interaction,
	}

	founding := model.Iteration{
		Timestamp:     ev.ReceivedAt,
		MayContainGap: false,
		SessionID:     session,
		Connection:    ev.Connection,
		Content:       m.Content,
		Attachments:   orEmpty(m.Attachments),
		Embeds:        orEmpty(m.Embeds),
		Components:    orEmpty(m.Components),
		StickerItems:  orEmpty(m.StickerItems),
	}

	return model.NewFull(core, meta, founding)
}

// Convert an edit of a never seen message into an incomplete record.
// Author and creation timestamp are static fields and can not be synthesized.
func IncompleteFromEdit(u event.MessageUpdate, observedAt time.Time, session uuid.UUID) (model.Incomplete, error) {
	if u.AuthorID == nil || *u.AuthorID == "" {
		return model.Incomplete{}, ErrMissingAuthor
	}
	if u.Timestamp == nil || u.Timestamp.IsZero() {
		return model.Incomplete{}, ErrMissingTimestamp
	}

	core := model.Core{
		ID:        u.ID,
		ChannelID: u.ChannelID,
		GuildID:   u.GuildID,
		AuthorID:  *u.AuthorID,
		Timestamp: *u.Timestamp,
	}

	// The edit that got us here is itself the edit.
	return model.NewIncomplete(core, IterationFromEdit(u, observedAt, session), true), nil
}

// Convert an edit into a single history entry.
// Facets the platform did not report become empty values.
func IterationFromEdit(u event.MessageUpdate, observedAt time.Time, session uuid.UUID) model.Iteration {
	var content string
	if u.Content != nil {
		content = *u.Content
	}

	return model.Iteration{
		Timestamp:     observedAt,
		MayContainGap: false,
		SessionID:     session,
		Content:       content,
		Attachments:   orEmpty(u.Attachments),
		Embeds:        orEmpty(u.Embeds),
		Components:    orEmpty(u.Components),
		StickerItems:  orEmpty(u.StickerItems),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
