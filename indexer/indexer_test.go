package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/require"
)

func testReceipt(action string, height int64) Receipt {
	events := []abci.Event{
		{
			Type: "academy_enrolled",
			Attributes: []abci.EventAttribute{
				{Key: "course_id", Value: "1"},
				{Key: "stake", Value: "1000000"},
			},
		},
	}
	return NewReceipt(height, action, json.RawMessage(`{"course_id":"1"}`), events, time.Unix(1_700_000_000, 0))
}

func TestNewReceipt(t *testing.T) {
	a := testReceipt("MsgEnroll", 3)
	b := testReceipt("MsgEnroll", 3)

	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, time.UTC, a.Time.Location())
}

func TestEventRows(t *testing.T) {
	r := testReceipt("MsgEnroll", 3)
	r.Events = append(r.Events, abci.Event{
		Type: "academy_milestone_completed",
		Attributes: []abci.EventAttribute{
			{Key: "points", Value: "5"},
			{Key: "points", Value: "7"},
		},
	})

	rows := r.EventRows()
	require.Len(t, rows, 2)
	require.Equal(t, EventRow{Index: 0, Type: "academy_enrolled", Attributes: map[string]string{
		"course_id": "1",
		"stake":     "1000000",
	}}, rows[0])
	require.Equal(t, 1, rows[1].Index)
	require.Equal(t, "7", rows[1].Attributes["points"])
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink(0)

	require.NoError(t, sink.Index(ctx, testReceipt("MsgEnroll", 2)))
	require.NoError(t, sink.Index(ctx, testReceipt("MsgCompleteCourse", 3)))
	require.NoError(t, sink.Index(ctx, testReceipt("MsgEnroll", 4)))

	all := sink.Receipts()
	require.Len(t, all, 3)
	require.Equal(t, int64(2), all[0].Height)

	enrolls := sink.ByAction("MsgEnroll")
	require.Len(t, enrolls, 2)
	require.Equal(t, int64(4), enrolls[1].Height)
	require.Empty(t, sink.ByAction("MsgSetPlatformFee"))

	// returned slices are copies
	all[0].Height = 99
	require.Equal(t, int64(2), sink.Receipts()[0].Height)
}

func TestMemorySinkLimit(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink(2)

	for h := int64(1); h <= 5; h++ {
		require.NoError(t, sink.Index(ctx, testReceipt("MsgEnroll", h)))
	}

	receipts := sink.Receipts()
	require.Len(t, receipts, 2)
	require.Equal(t, int64(4), receipts[0].Height)
	require.Equal(t, int64(5), receipts[1].Height)
}

type failingSink struct{ err error }

func (f failingSink) Index(context.Context, Receipt) error { return f.err }
func (f failingSink) Close() error                         { return f.err }

func TestMulti(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	mem := NewMemorySink(0)
	multi := Multi{failingSink{err: boom}, mem}

	err := multi.Index(ctx, testReceipt("MsgEnroll", 2))
	require.ErrorIs(t, err, boom)
	// later sinks still receive the receipt
	require.Len(t, mem.Receipts(), 1)
	require.ErrorIs(t, multi.Close(), boom)
}

func TestPostgresSink(t *testing.T) {
	dsn := os.Getenv("STAKEDLEARN_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("STAKEDLEARN_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	sink, err := NewPostgresSink(ctx, PostgresConfig{URL: dsn, MaxConnections: 4, MaxIdle: 2, ConnMaxLife: time.Minute})
	require.NoError(t, err)
	defer sink.Close()

	action := "MsgEnroll-" + time.Now().Format("150405.000000")
	before, err := sink.CountByAction(ctx, action)
	require.NoError(t, err)

	r := testReceipt(action, 7)
	require.NoError(t, sink.Index(ctx, r))
	// idempotent per receipt id
	require.NoError(t, sink.Index(ctx, r))

	after, err := sink.CountByAction(ctx, action)
	require.NoError(t, err)
	require.Equal(t, before+1, after)
}
