// Package store owns the per-channel message lists. Lists are append-only:
// a channel's length is monotonically non-decreasing for the lifetime of
// the session and no removal operation exists.
package store

import (
	"sync"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/directory"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
)

type MessageStore struct {
	mu       sync.RWMutex
	channels map[string][]types.Message
}

// New seeds one list per channel from the directory's seed messages.
func New(dir *directory.Directory) *MessageStore {
	channels := make(map[string][]types.Message)
	for _, cat := range dir.Categories() {
		for _, ch := range cat.Channels {
			channels[ch.Id] = append([]types.Message(nil), ch.Seed...)
		}
	}

	return &MessageStore{channels: channels}
}

// Messages returns the channel's list in append order. The returned slice
// is a copy; an unknown channel yields an empty slice.
func (ms *MessageStore) Messages(channelId string) []types.Message {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return append([]types.Message(nil), ms.channels[channelId]...)
}

// Append adds a message to the end of the named channel's list. It never
// fails; appends are applied in call order.
func (ms *MessageStore) Append(channelId string, msg types.Message) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.channels[channelId] = append(ms.channels[channelId], msg)
}

// Len reports the current length of a channel's list.
func (ms *MessageStore) Len(channelId string) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	return len(ms.channels[channelId])
}
