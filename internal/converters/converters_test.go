package converters

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/plugfox/foxy-archive-server/internal/model"
	"github.com/stretchr/testify/require"
)

var (
	session  = uuid.MustParse("6f1c1f6e-6c43-4a4f-9d3e-2a0d2f6f1d11")
	created  = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	received = created.Add(5 * time.Second)
)

func ptr[T any](v T) *T { return &v }

func TestFullFromCreation(t *testing.T) {
	ev := event.Create{
		Message: event.Message{
			ID:          "1",
			ChannelID:   "200",
			GuildID:     model.OptionalGuild("300"),
			AuthorID:    "400",
			Timestamp:   created,
			Kind:        model.MessageKindInlineReply,
			Reference:   &model.MessageReference{MessageID: "0", ChannelID: "200"},
			WebhookID:   model.OptionalWebhook("500"),
			Content:     "hi",
			Attachments: []model.Attachment{{ID: "900", Filename: "cat.png"}},
		},
		ReceivedAt: received,
	}

	full := FullFromCreation(ev, session)

	require.Equal(t, model.MessageID("1"), full.ID)
	require.Equal(t, model.UserID("400"), full.AuthorID)
	require.Equal(t, created, full.Timestamp)
	require.Equal(t, model.MessageKindInlineReply, full.Kind)
	require.Equal(t, ev.Message.Reference, full.Reference)
	require.Equal(t, ev.Message.WebhookID, full.WebhookID)
	require.Nil(t, full.ApplicationID)
	require.False(t, full.MarkedAsEdited)

	require.Len(t, full.Iterations, 1)
	founding := full.Iterations[0]
	require.Equal(t, "hi", founding.Content)
	require.Equal(t, received, founding.Timestamp)
	require.Equal(t, session, founding.SessionID)
	require.False(t, founding.MayContainGap)
	require.Equal(t, ev.Message.Attachments, founding.Attachments)
	require.NotNil(t, founding.Embeds)
	require.NotNil(t, founding.Components)
	require.NotNil(t, founding.StickerItems)
}

func TestIncompleteFromEdit(t *testing.T) {
	edited := received.Add(time.Minute)

	testcases := []struct {
		Name   string
		Update event.MessageUpdate
		Err    error
	}{
		{
			Name: "Complete",
			Update: event.MessageUpdate{
				ID:              "2",
				ChannelID:       "200",
				AuthorID:        ptr(model.UserID("A")),
				Timestamp:       &created,
				EditedTimestamp: &edited,
				Content:         ptr("edited"),
			},
		},
		{
			Name: "Missing author",
			Update: event.MessageUpdate{
				ID:        "2",
				ChannelID: "200",
				Timestamp: &created,
				Content:   ptr("edited"),
			},
			Err: ErrMissingAuthor,
		},
		{
			Name: "Empty author",
			Update: event.MessageUpdate{
				ID:        "2",
				ChannelID: "200",
				AuthorID:  ptr(model.UserID("")),
				Timestamp: &created,
			},
			Err: ErrMissingAuthor,
		},
		{
			Name: "Missing timestamp",
			Update: event.MessageUpdate{
				ID:        "2",
				ChannelID: "200",
				AuthorID:  ptr(model.UserID("A")),
				Content:   ptr("edited"),
			},
			Err: ErrMissingTimestamp,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.Name, func(t *testing.T) {
			record, err := IncompleteFromEdit(tc.Update, edited, session)
			if tc.Err != nil {
				require.ErrorIs(t, err, tc.Err)
				return
			}
			require.NoError(t, err)
			require.True(t, record.MarkedAsEdited)
			require.Equal(t, model.UserID("A"), record.AuthorID)
			require.Equal(t, created, record.Timestamp)
			require.Len(t, record.Iterations, 1)
			require.Equal(t, "edited", record.Iterations[0].Content)
			require.Equal(t, edited, record.Iterations[0].Timestamp)
		})
	}
}

func TestIterationFromEditDefaults(t *testing.T) {
	it := IterationFromEdit(event.MessageUpdate{ID: "3", ChannelID: "200"}, received, session)

	require.Equal(t, "", it.Content)
	require.False(t, it.MayContainGap)
	require.Equal(t, session, it.SessionID)
	require.Equal(t, received, it.Timestamp)
	require.Equal(t, []model.Attachment{}, it.Attachments)
	require.Equal(t, []model.Embed{}, it.Embeds)
	require.Equal(t, []model.Component{}, it.Components)
	require.Equal(t, []model.StickerItem{}, it.StickerItems)
}
