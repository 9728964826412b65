package discord

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/plugfox/foxy-archive-server/internal/model"
)

var errorEmptyMessage = errors.New("gateway message is empty")

// Convert a gateway message into a creation event.
func CreateFromGateway(m *discordgo.Message, receivedAt time.Time) (event.Create, error) {
	if m == nil {
		return event.Create{}, errorEmptyMessage
	}

	embeds, err := embedsFromGateway(m.Embeds)
	if err != nil {
		return event.Create{}, err
	}
	components, err := componentsFromGateway(m.Components)
	if err != nil {
		return event.Create{}, err
	}

	msg := event.Message{
		ID:           model.MessageID(m.ID),
		ChannelID:    model.ChannelID(m.ChannelID),
		GuildID:      model.OptionalGuild(m.GuildID),
		Timestamp:    m.Timestamp.UTC(),
		Kind:         model.KindFromPlatform(int(m.Type)),
		Reference:    referenceFromGateway(m.MessageReference),
		WebhookID:    model.OptionalWebhook(m.WebhookID),
		Interaction:  interactionFromGateway(m.Interaction),
		Content:      m.Content,
		Attachments:  attachmentsFromGateway(m.Attachments),
		Embeds:       embeds,
		Components:   components,
		StickerItems: stickersFromGateway(m.StickerItems),
	}

	if m.Author != nil {
		msg.AuthorID = model.UserID(m.Author.ID)
	}
	if m.Application != nil {
		msg.ApplicationID = model.OptionalApplication(m.Application.ID)
	}

	return event.Create{Message: msg, ReceivedAt: receivedAt}, nil
}

// Convert a gateway message update into an edit event.
// The update is partial: absent facets stay nil.
func EditFromGateway(m *discordgo.Message, receivedAt time.Time) (event.Edit, error) {
	if m == nil {
		return event.Edit{}, errorEmptyMessage
	}

	embeds, err := embedsFromGateway(m.Embeds)
	if err != nil {
		return event.Edit{}, err
	}
	components, err := componentsFromGateway(m.Components)
	if err != nil {
		return event.Edit{}, err
	}

	u := event.MessageUpdate{
		ID:           model.MessageID(m.ID),
		ChannelID:    model.ChannelID(m.ChannelID),
		GuildID:      model.OptionalGuild(m.GuildID),
		Attachments:  attachmentsFromGateway(m.Attachments),
		Embeds:       embeds,
		Components:   components,
		StickerItems: stickersFromGateway(m.StickerItems),
	}

	if m.Author != nil && m.Author.ID != "" {
		author := model.UserID(m.Author.ID)
		u.AuthorID = &author
	}
	if !m.Timestamp.IsZero() {
		ts := m.Timestamp.UTC()
		u.Timestamp = &ts
	}
	if m.EditedTimestamp != nil && !m.EditedTimestamp.IsZero() {
		ts := m.EditedTimestamp.UTC()
		u.EditedTimestamp = &ts
	}
	// The payload does not tell an absent body from an empty one.
	if m.Content != "" || u.EditedTimestamp != nil {
		content := m.Content
		u.Content = &content
	}

	return event.Edit{Update: u, ReceivedAt: receivedAt}, nil
}

// Convert a gateway deletion into a delete event.
func DeleteFromGateway(m *discordgo.Message, receivedAt time.Time) (event.Delete, error) {
	if m == nil || m.ID == "" {
		return event.Delete{}, errorEmptyMessage
	}

	return event.Delete{
		ID:         model.MessageID(m.ID),
		ChannelID:  model.ChannelID(m.ChannelID),
		GuildID:    model.OptionalGuild(m.GuildID),
		ReceivedAt: receivedAt,
	}, nil
}

// Convert a gateway bulk deletion into a bulk delete event.
func BulkDeleteFromGateway(m *discordgo.MessageDeleteBulk, receivedAt time.Time) (event.BulkDelete, error) {
	if m == nil {
		return event.BulkDelete{}, errorEmptyMessage
	}

	ids := make([]model.MessageID, 0, len(m.Messages))
	for _, id := range m.Messages {
		ids = append(ids, model.MessageID(id))
	}

	return event.BulkDelete{
		IDs:        ids,
		ChannelID:  model.ChannelID(m.ChannelID),
		GuildID:    model.OptionalGuild(m.GuildID),
		ReceivedAt: receivedAt,
	}, nil
}

func referenceFromGateway(r *discordgo.MessageReference) *model.MessageReference {
	if r == nil {
		return nil
	}
	return &model.MessageReference{
		MessageID: model.MessageID(r.MessageID),
		ChannelID: model.ChannelID(r.ChannelID),
		GuildID:   model.GuildID(r.GuildID),
	}
}

func interactionFromGateway(i *discordgo.MessageInteraction) *model.Interaction {
	if i == nil {
		return nil
	}
	interaction := &model.Interaction{
		ID:   model.InteractionID(i.ID),
		Type: int(i.Type),
		Name: i.Name,
	}
	switch {
	case i.User != nil:
		interaction.UserID = model.UserID(i.User.ID)
	case i.Member != nil && i.Member.User != nil:
		interaction.UserID = model.UserID(i.Member.User.ID)
	}
	return interaction
}

func attachmentsFromGateway(attachments []*discordgo.MessageAttachment) []model.Attachment {
	if attachments == nil {
		return nil
	}
	out := make([]model.Attachment, 0, len(attachments))
	for _, a := range attachments {
		if a == nil {
			continue
		}
		out = append(out, model.Attachment{
			ID:          model.AttachmentID(a.ID),
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
			URL:         a.URL,
			ProxyURL:    a.ProxyURL,
			Width:       a.Width,
			Height:      a.Height,
		})
	}
	return out
}

func stickersFromGateway(stickers []*discordgo.StickerItem) []model.StickerItem {
	if stickers == nil {
		return nil
	}
	out := make([]model.StickerItem, 0, len(stickers))
	for _, s := range stickers {
		if s == nil {
			continue
		}
		out = append(out, model.StickerItem{
			ID:         model.StickerID(s.ID),
			Name:       s.Name,
			FormatType: int(s.FormatType),
		})
	}
	return out
}

func embedsFromGateway(embeds []*discordgo.MessageEmbed) ([]model.Embed, error) {
	if embeds == nil {
		return nil, nil
	}
	return reshape[model.Embed]("embeds", embeds)
}

func componentsFromGateway(components []discordgo.MessageComponent) ([]model.Component, error) {
	if components == nil {
		return nil, nil
	}
	return reshape[model.Component]("components", components)
}

// reshape copies a gateway value into the archive model through its wire
// form; both sides use the gateway field names.
func reshape[T any](facet string, src any) ([]T, error) {
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", facet, err)
	}
	out := make([]T, 0)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", facet, err)
	}
	return out, nil
}
