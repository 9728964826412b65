package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/plugfox/foxy-archive-server/internal/model"
	"github.com/stretchr/testify/require"
)

var (
	created  = time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	received = created.Add(time.Second)
)

func gatewayMessage() *discordgo.Message {
	return &discordgo.Message{
		ID:        "1",
		ChannelID: "200",
		GuildID:   "300",
		Content:   "hello",
		Timestamp: created,
		Author:    &discordgo.User{ID: "400", Username: "fox"},
		Type:      discordgo.MessageTypeReply,
		Attachments: []*discordgo.MessageAttachment{
			{ID: "900", Filename: "cat.png", ContentType: "image/png", Size: 42, URL: "https://cdn/cat.png", Width: 10, Height: 20},
		},
		Embeds: []*discordgo.MessageEmbed{
			{Title: "Title", Color: 0xff8800, Fields: []*discordgo.MessageEmbedField{{Name: "a", Value: "b", Inline: true}}},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Ok", CustomID: "ok"},
			}},
		},
		StickerItems:     []*discordgo.StickerItem{{ID: "77", Name: "wave", FormatType: discordgo.StickerFormatTypePNG}},
		MessageReference: &discordgo.MessageReference{MessageID: "0", ChannelID: "200", GuildID: "300"},
		WebhookID:        "500",
		Application:      &discordgo.MessageApplication{ID: "600"},
		Interaction: &discordgo.MessageInteraction{
			ID:     "700",
			Type:   discordgo.InteractionApplicationCommand,
			Name:   "archive",
			Member: &discordgo.Member{User: &discordgo.User{ID: "401"}},
		},
	}
}

func TestCreateFromGateway(t *testing.T) {
	ev, err := CreateFromGateway(gatewayMessage(), received)
	require.NoError(t, err)

	m := ev.Message
	require.Equal(t, received, ev.ReceivedAt)
	require.Equal(t, model.MessageID("1"), m.ID)
	require.Equal(t, model.ChannelID("200"), m.ChannelID)
	require.Equal(t, model.OptionalGuild("300"), m.GuildID)
	require.Equal(t, model.UserID("400"), m.AuthorID)
	require.Equal(t, created, m.Timestamp)
	require.Equal(t, model.MessageKindInlineReply, m.Kind)
	require.Equal(t, &model.MessageReference{MessageID: "0", ChannelID: "200", GuildID: "300"}, m.Reference)
	require.Equal(t, model.OptionalWebhook("500"), m.WebhookID)
	require.Equal(t, model.OptionalApplication("600"), m.ApplicationID)
	require.Equal(t, &model.Interaction{ID: "700", Type: 2, Name: "archive", UserID: "401"}, m.Interaction)
	require.Equal(t, "hello", m.Content)

	require.Equal(t, []model.Attachment{{
		ID: "900", Filename: "cat.png", ContentType: "image/png", Size: 42, URL: "https://cdn/cat.png", Width: 10, Height: 20,
	}}, m.Attachments)
	require.Equal(t, []model.Embed{{
		Title: "Title", Color: 0xff8800, Fields: []model.EmbedField{{Name: "a", Value: "b", Inline: true}},
	}}, m.Embeds)
	require.Equal(t, []model.StickerItem{{ID: "77", Name: "wave", FormatType: 1}}, m.StickerItems)

	require.Len(t, m.Components, 1)
	row := m.Components[0]
	require.Equal(t, 1, row.Type)
	require.Len(t, row.Components, 1)
	require.Equal(t, model.Component{Type: 2, Label: "Ok", CustomID: "ok", Style: 1}, row.Components[0])
}

func TestCreateFromGatewayMinimal(t *testing.T) {
	ev, err := CreateFromGateway(&discordgo.Message{ID: "1", ChannelID: "200", Author: &discordgo.User{ID: "400"}, Timestamp: created}, received)
	require.NoError(t, err)
	require.Nil(t, ev.Message.GuildID)
	require.Nil(t, ev.Message.WebhookID)
	require.Nil(t, ev.Message.ApplicationID)
	require.Nil(t, ev.Message.Interaction)
	require.Nil(t, ev.Message.Reference)
	require.Equal(t, model.MessageKindRegular, ev.Message.Kind)

	_, err = CreateFromGateway(nil, received)
	require.ErrorIs(t, err, errorEmptyMessage)
}

func TestEditFromGateway(t *testing.T) {
	edited := created.Add(time.Minute)
	full := gatewayMessage()
	full.EditedTimestamp = &edited

	ev, err := EditFromGateway(full, received)
	require.NoError(t, err)
	u := ev.Update
	require.Equal(t, model.UserID("400"), *u.AuthorID)
	require.Equal(t, created, *u.Timestamp)
	require.Equal(t, edited, *u.EditedTimestamp)
	require.Equal(t, "hello", *u.Content)
	require.Len(t, u.Attachments, 1)
	require.Equal(t, edited, ev.ObservedAt())

	partial, err := EditFromGateway(&discordgo.Message{ID: "1", ChannelID: "200", Embeds: []*discordgo.MessageEmbed{{URL: "https://fox"}}}, received)
	require.NoError(t, err)
	u = partial.Update
	require.Nil(t, u.AuthorID)
	require.Nil(t, u.Timestamp)
	require.Nil(t, u.EditedTimestamp)
	require.Nil(t, u.Content)
	require.Nil(t, u.Attachments)
	require.Nil(t, u.Components)
	require.Equal(t, []model.Embed{{URL: "https://fox"}}, u.Embeds)
	require.Equal(t, received, partial.ObservedAt())
}

func TestDeleteFromGateway(t *testing.T) {
	ev, err := DeleteFromGateway(&discordgo.Message{ID: "1", ChannelID: "200"}, received)
	require.NoError(t, err)
	require.Equal(t, model.MessageID("1"), ev.ID)
	require.Equal(t, model.ChannelID("200"), ev.ChannelID)
	require.Nil(t, ev.GuildID)
	require.Equal(t, received, ev.ReceivedAt)

	_, err = DeleteFromGateway(&discordgo.Message{ChannelID: "200"}, received)
	require.ErrorIs(t, err, errorEmptyMessage)
}

func TestBulkDeleteFromGateway(t *testing.T) {
	ev, err := BulkDeleteFromGateway(&discordgo.MessageDeleteBulk{Messages: []string{"1", "2"}, ChannelID: "200", GuildID: "300"}, received)
	require.NoError(t, err)
	require.Equal(t, []model.MessageID{"1", "2"}, ev.IDs)
	require.Equal(t, model.OptionalGuild("300"), ev.GuildID)
	require.Len(t, ev.Split(), 2)
}
