package types

import (
	"time"
)

type MessageKind string

const (
	KindText  MessageKind = "text"
	KindAudio MessageKind = "audio"
	KindImage MessageKind = "image"
)

type User struct {
	Id     string `json:"id" toml:"id"`
	Name   string `json:"name" toml:"name"`
	Avatar string `json:"avatar,omitempty" toml:"avatar"`
	Online bool   `json:"online" toml:"online"`
}

// MediaRef locates a playable clip in the host environment.
type MediaRef string

// Message is immutable once created. Channel membership is positional:
// a message belongs to whichever per-channel list it was appended to.
type Message struct {
	Id        string      `json:"id"`
	UserId    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Kind      MessageKind `json:"kind"`
	Body      string      `json:"body,omitempty"`
	Media     MediaRef    `json:"media,omitempty"`
}

type Channel struct {
	Id          string    `json:"id" toml:"id"`
	Name        string    `json:"name" toml:"name"`
	Icon        string    `json:"icon" toml:"icon"`
	Description string    `json:"description" toml:"description"`
	Seed        []Message `json:"-" toml:"-"`
}

type Category struct {
	Id       string    `json:"id" toml:"id"`
	Name     string    `json:"name" toml:"name"`
	Channels []Channel `json:"channels" toml:"channels"`
}

// Emoji is a tagged variant: either a plain glyph or a reference to a
// custom emoji asset. Exactly one of the two is set.
type Emoji struct {
	Glyph string      `json:"glyph,omitempty"`
	Asset *EmojiAsset `json:"asset,omitempty"`
}

type EmojiAsset struct {
	Id  string `json:"id"`
	Alt string `json:"alt"`
}

func (e Emoji) IsAsset() bool {
	return e.Asset != nil
}

type CallDirection string

const (
	Outgoing CallDirection = "outgoing"
	Incoming CallDirection = "incoming"
)

type CallStatus string

const (
	CallIdle       CallStatus = "idle"
	CallConnecting CallStatus = "connecting"
	CallActive     CallStatus = "active"
	CallEnded      CallStatus = "ended"
)

// CallSnapshot is a point-in-time copy of the open call session. A snapshot
// with Status == CallIdle means no session is open.
type CallSnapshot struct {
	Id         string        `json:"id,omitempty"`
	Caller     User          `json:"caller"`
	Peer       User          `json:"peer"`
	Direction  CallDirection `json:"direction,omitempty"`
	Status     CallStatus    `json:"status"`
	Duration   int           `json:"duration"`
	Muted      bool          `json:"muted"`
	SpeakerOff bool          `json:"speaker_off"`
}
