package merge

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plugfox/foxy-archive-server/internal/converters"
	"github.com/plugfox/foxy-archive-server/internal/event"
	"github.com/plugfox/foxy-archive-server/internal/model"
	"github.com/stretchr/testify/require"
)

var (
	session = uuid.MustParse("0d7b8f0a-1b9e-4c7a-8f5e-5a3c2b1d0e9f")
	earlier = uuid.MustParse("c2a4e6f8-0b1d-4e3f-a5b7-c9d1e3f5a7b9")
	t0      = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

func create(id model.MessageID, content string) event.Create {
	return event.Create{
		Message: event.Message{
			ID:        id,
			ChannelID: "200",
			GuildID:   model.OptionalGuild("300"),
			AuthorID:  "A",
			Timestamp: t0,
			Kind:      model.MessageKindRegular,
			Content:   content,
		},
		ReceivedAt: t0,
	}
}

func edit(id model.MessageID, content string, at time.Time) event.Edit {
	return event.Edit{
		Update: event.MessageUpdate{
			ID:              id,
			ChannelID:       "200",
			GuildID:         model.OptionalGuild("300"),
			AuthorID:        ptr(model.UserID("A")),
			Timestamp:       ptr(t0),
			EditedTimestamp: &at,
			Content:         &content,
		},
		ReceivedAt: at,
	}
}

func del(id model.MessageID, at time.Time) event.Delete {
	return event.Delete{ID: id, ChannelID: "200", GuildID: model.OptionalGuild("300"), ReceivedAt: at}
}

func contents(t *testing.T, record model.MessageRecord) []string {
	t.Helper()
	iterations, err := model.Iterations(record)
	require.NoError(t, err)
	out := make([]string, 0, len(iterations))
	for _, it := range iterations {
		out = append(out, it.Content)
	}
	return out
}

func TestCreateEditDeleteScenario(t *testing.T) {
	engine := New(session)

	res, err := engine.Apply(nil, create("1", "hi"))
	require.NoError(t, err)
	require.Equal(t, ActionInsert, res.Action)
	full, ok := res.Record.(model.Full)
	require.True(t, ok)
	require.False(t, full.MarkedAsEdited)
	require.Equal(t, []string{"hi"}, contents(t, full))

	res, err = engine.Apply(full, edit("1", "hi!", t0.Add(time.Minute)))
	require.NoError(t, err)
	require.Equal(t, ActionUpsert, res.Action)
	edited, ok := res.Record.(model.Full)
	require.True(t, ok)
	require.True(t, edited.MarkedAsEdited)
	require.Equal(t, []string{"hi", "hi!"}, contents(t, edited))
	require.False(t, edited.Iterations[1].MayContainGap)

	// The earlier value is untouched.
	require.Len(t, full.Iterations, 1)

	deletedAt := t0.Add(2 * time.Minute)
	res, err = engine.Apply(edited, del("1", deletedAt))
	require.NoError(t, err)
	require.Equal(t, ActionUpsert, res.Action)
	deleted, ok := res.Record.(model.FullDeleted)
	require.True(t, ok)
	require.Equal(t, []string{"hi", "hi!"}, contents(t, deleted))
	require.NotNil(t, deleted.DeletedTimestamp)
	require.Equal(t, deletedAt, *deleted.DeletedTimestamp)
	require.True(t, deleted.MarkedAsEdited)
	require.Equal(t, edited.Core, deleted.Core)
	require.Equal(t, edited.FullMeta, deleted.FullMeta)
}

func TestEditWithoutRecord(t *testing.T) {
	engine := New(session)

	res, err := engine.Apply(nil, edit("2", "edited", t0.Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, ActionUpsert, res.Action)
	incomplete, ok := res.Record.(model.Incomplete)
	require.True(t, ok)
	require.True(t, incomplete.MarkedAsEdited)
	require.Equal(t, model.UserID("A"), incomplete.AuthorID)
	require.Equal(t, t0, incomplete.Timestamp)
	require.Equal(t, []string{"edited"}, contents(t, incomplete))
}

func TestEditWithoutRecordTranslationFailure(t *testing.T) {
	engine := New(session)

	ev := edit("2", "edited", t0)
	ev.Update.AuthorID = nil
	_, err := engine.Apply(nil, ev)
	require.ErrorIs(t, err, converters.ErrMissingAuthor)

	ev = edit("2", "edited", t0)
	ev.Update.Timestamp = nil
	_, err = engine.Apply(nil, ev)
	require.ErrorIs(t, err, converters.ErrMissingTimestamp)
}

func TestDeleteWithoutRecord(t *testing.T) {
	engine := New(session)
	deletedAt := t0.Add(time.Hour)

	res, err := engine.Apply(nil, del("3", deletedAt))
	require.NoError(t, err)
	require.Equal(t, ActionUpsert, res.Action)
	require.Equal(t, model.UnknownDeleted{
		ID:               "3",
		ChannelID:        "200",
		GuildID:          model.OptionalGuild("300"),
		DeletedTimestamp: &deletedAt,
	}, res.Record)
}

func TestDeleteIncomplete(t *testing.T) {
	engine := New(session)

	res, err := engine.Apply(nil, edit("4", "edited", t0))
	require.NoError(t, err)
	incomplete := res.Record.(model.Incomplete)

	res, err = engine.Apply(incomplete, del("4", t0.Add(time.Minute)))
	require.NoError(t, err)
	deleted, ok := res.Record.(model.IncompleteDeleted)
	require.True(t, ok)
	require.Equal(t, incomplete.Core, deleted.Core)
	require.Equal(t, incomplete.History, deleted.History)
}

func TestDeleteTwiceIsAnomaly(t *testing.T) {
	engine := New(session)
	full := converters.FullFromCreation(create("1", "hi"), session)
	ev := del("1", t0.Add(time.Minute))

	first, err := engine.Apply(full, ev)
	require.NoError(t, err)
	deleted, ok := first.Record.(model.FullDeleted)
	require.True(t, ok)

	again, err := engine.Apply(full, ev)
	require.NoError(t, err)
	require.Equal(t, first, again)

	second, err := engine.Apply(deleted, ev)
	require.NoError(t, err)
	require.Equal(t, ActionSkip, second.Action)
	require.ErrorIs(t, second.Reason, ErrDeleteAfterDelete)
	require.Nil(t, second.Record)
	require.Equal(t, []string{"hi"}, contents(t, deleted))
}

func TestAnomalies(t *testing.T) {
	engine := New(session)
	deletedAt := t0.Add(time.Minute)
	full := converters.FullFromCreation(create("1", "hi"), session)
	incomplete, err := converters.IncompleteFromEdit(edit("1", "x", t0).Update, t0, session)
	require.NoError(t, err)

	testcases := []struct {
		Name     string
		Existing model.MessageRecord
		Event    event.Event
		Reason   error
	}{
		{"Create over full", full, create("1", "hi"), ErrDuplicateCreate},
		{"Create over unknown deleted", model.NewUnknownDeleted("1", "200", nil, &deletedAt), create("1", "hi"), ErrDuplicateCreate},
		{"Edit after full delete", full.IntoDeleted(&deletedAt), edit("1", "late", t0), ErrEditAfterDelete},
		{"Edit after incomplete delete", incomplete.IntoDeleted(&deletedAt), edit("1", "late", t0), ErrEditAfterDelete},
		{"Edit after unknown delete", model.NewUnknownDeleted("1", "200", nil, &deletedAt), edit("1", "late", t0), ErrEditAfterDelete},
		{"Delete after incomplete delete", incomplete.IntoDeleted(&deletedAt), del("1", t0), ErrDeleteAfterDelete},
		{"Delete after unknown delete", model.NewUnknownDeleted("1", "200", nil, nil), del("1", t0), ErrDeleteAfterDelete},
		{"Bulk delete", nil, event.BulkDelete{IDs: []model.MessageID{"1"}, ChannelID: "200"}, ErrBulkDeleteUnresolved},
	}

	for _, tc := range testcases {
		t.Run(tc.Name, func(t *testing.T) {
			res, err := engine.Apply(tc.Existing, tc.Event)
			require.NoError(t, err)
			require.Equal(t, ActionSkip, res.Action)
			require.Nil(t, res.Record)
			require.ErrorIs(t, res.Reason, tc.Reason)
		})
	}
}

func TestEditAppendsInOrder(t *testing.T) {
	engine := New(session)
	var record model.MessageRecord = converters.FullFromCreation(create("1", "v0"), session)

	for i, content := range []string{"v1", "v2", "v3"} {
		before, err := model.Iterations(record)
		require.NoError(t, err)

		// Same timestamp on every edit; order must still follow arrival.
		res, err := engine.Apply(record, edit("1", content, t0))
		require.NoError(t, err)

		after, err := model.Iterations(res.Record)
		require.NoError(t, err)
		require.Len(t, after, len(before)+1)
		require.Equal(t, before, after[:len(before)])
		require.Equal(t, content, after[i+1].Content)
		record = res.Record
	}
	require.Equal(t, []string{"v0", "v1", "v2", "v3"}, contents(t, record))
}

func TestEditedFlagIsSticky(t *testing.T) {
	engine := New(session)
	full := converters.FullFromCreation(create("1", "hi"), session)

	// Embed resolution arrives as an update without an edited timestamp.
	unfurl := edit("1", "hi", t0)
	unfurl.Update.EditedTimestamp = nil
	res, err := engine.Apply(full, unfurl)
	require.NoError(t, err)
	require.False(t, res.Record.(model.Full).MarkedAsEdited)

	res, err = engine.Apply(res.Record, edit("1", "hi!", t0.Add(time.Minute)))
	require.NoError(t, err)
	require.True(t, res.Record.(model.Full).MarkedAsEdited)

	res, err = engine.Apply(res.Record, unfurl)
	require.NoError(t, err)
	require.True(t, res.Record.(model.Full).MarkedAsEdited)
}

func TestEditFromAnotherSessionMayContainGap(t *testing.T) {
	full := converters.FullFromCreation(create("1", "hi"), earlier)

	res, err := New(session).Apply(full, edit("1", "hi!", t0.Add(time.Hour)))
	require.NoError(t, err)
	record := res.Record.(model.Full)
	require.False(t, record.Iterations[0].MayContainGap)
	require.True(t, record.Iterations[1].MayContainGap)
	require.Equal(t, session, record.Iterations[1].SessionID)
	require.Equal(t, []int{1}, model.PossibleGaps(record.Iterations))
}

func TestEditAfterReconnectMayContainGap(t *testing.T) {
	engine := New(session)

	created := create("1", "hi")
	created.Connection = 1
	res, err := engine.Apply(nil, created)
	require.NoError(t, err)

	same := edit("1", "hi!", t0.Add(time.Minute))
	same.Connection = 1
	res, err = engine.Apply(res.Record, same)
	require.NoError(t, err)
	require.False(t, res.Record.(model.Full).Iterations[1].MayContainGap)

	// The gateway dropped and identified again: the next edit follows a blind spot.
	reconnected := edit("1", "hi!!", t0.Add(time.Hour))
	reconnected.Connection = 2
	res, err = engine.Apply(res.Record, reconnected)
	require.NoError(t, err)

	// Later edits on the same connection are continuous again.
	next := edit("1", "hi!!!", t0.Add(2*time.Hour))
	next.Connection = 2
	res, err = engine.Apply(res.Record, next)
	require.NoError(t, err)

	record := res.Record.(model.Full)
	require.Equal(t, []uint32{1, 1, 2, 2}, []uint32{
		record.Iterations[0].Connection,
		record.Iterations[1].Connection,
		record.Iterations[2].Connection,
		record.Iterations[3].Connection,
	})
	require.True(t, record.Iterations[2].MayContainGap)
	require.False(t, record.Iterations[3].MayContainGap)
	require.Equal(t, []int{2}, model.PossibleGaps(record.Iterations))
}

func TestEditWithoutRecordKeepsConnection(t *testing.T) {
	ev := edit("1", "edited", t0.Add(time.Minute))
	ev.Connection = 3

	res, err := New(session).Apply(nil, ev)
	require.NoError(t, err)
	require.Equal(t, uint32(3), res.Record.(model.Incomplete).Iterations[0].Connection)
}

func TestActionString(t *testing.T) {
	require.Equal(t, "skip", ActionSkip.String())
	require.Equal(t, "insert", ActionInsert.String())
	require.Equal(t, "upsert", ActionUpsert.String())
	require.Equal(t, "unknown", Action(42).String())
}
