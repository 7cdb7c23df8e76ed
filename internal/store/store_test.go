package store

import (
	"fmt"
	"testing"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/directory"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_seedsChannels(t *testing.T) {
	dir := directory.Default()
	ms := New(dir)

	assert.Len(t, ms.Messages("channel-1"), 3, "expected 3 seed messages in channel-1")
	assert.Len(t, ms.Messages("channel-3"), 0, "expected channel-3 to start empty")
	assert.Equal(t, "msg-1", ms.Messages("channel-1")[0].Id, "expected seed order to be preserved")
}

func Test_Append_preservesCallOrder(t *testing.T) {
	ms := New(directory.Default())

	var want []string
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("m-%d", i)
		ms.Append("channel-3", types.Message{Id: id, Kind: types.KindText, Body: id})
		want = append(want, id)
	}

	msgs := ms.Messages("channel-3")
	require.Len(t, msgs, 10)
	for i, m := range msgs {
		assert.Equalf(t, want[i], m.Id, "message %d out of order", i)
	}
}

func Test_Append_doesNotAffectOtherChannels(t *testing.T) {
	ms := New(directory.Default())

	before := ms.Messages("channel-2")
	ms.Append("channel-3", types.Message{Id: "m-1", Kind: types.KindText})

	assert.Equal(t, before, ms.Messages("channel-2"), "appending to channel-3 must not affect channel-2")
	assert.Len(t, ms.Messages("channel-3"), 1)
}

func Test_Messages_unknownChannel(t *testing.T) {
	ms := New(directory.Default())

	msgs := ms.Messages("no-such-channel")
	assert.Empty(t, msgs, "unknown channel should yield an empty list")
}

func Test_Messages_returnsCopy(t *testing.T) {
	ms := New(directory.Default())
	ms.Append("channel-3", types.Message{Id: "m-1", Kind: types.KindText, Body: "original"})

	msgs := ms.Messages("channel-3")
	msgs[0].Body = "mutated"

	assert.Equal(t, "original", ms.Messages("channel-3")[0].Body, "callers must not be able to mutate stored messages")
}

func Test_Len(t *testing.T) {
	ms := New(directory.Default())

	assert.Equal(t, 0, ms.Len("channel-3"))
	ms.Append("channel-3", types.Message{Id: "m-1"})
	assert.Equal(t, 1, ms.Len("channel-3"))
}
