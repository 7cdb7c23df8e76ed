package gateway

import (
	"net/http"
	"time"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/chat"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
)

type BaseMessage struct {
	Id        int       `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientMessage is an operation envelope from the rendering client.
// Exactly one operation pointer is set.
type ClientMessage struct {
	BaseMessage
	Publish  *Publish     `json:"publish,omitempty"`
	Compose  *Compose     `json:"compose,omitempty"`
	Emoji    *types.Emoji `json:"emoji,omitempty"`
	Select   *Select      `json:"select,omitempty"`
	Capture  *Capture     `json:"capture,omitempty"`
	Call     *CallOp      `json:"call,omitempty"`
	Playback *PlaybackOp  `json:"playback,omitempty"`
}

// Publish submits text to the selected channel.
type Publish struct {
	Text string `json:"text"`
}

// Compose replaces the pending input buffer.
type Compose struct {
	Text string `json:"text"`
}

type Select struct {
	CategoryId string `json:"category_id"`
	ChannelId  string `json:"channel_id"`
}

type Capture struct {
	Start bool `json:"start"`
}

type CallOp struct {
	// Op is one of start, accept, reject, hangup, mute, speaker.
	Op string `json:"op"`
}

type PlaybackOp struct {
	// Op is one of play, pause, ended.
	Op        string `json:"op"`
	MessageId string `json:"message_id"`
}

// ServerMessage is pushed to the rendering client: a response to one of
// its operations, an appended message, or a call transition.
type ServerMessage struct {
	BaseMessage
	Response *Response           `json:"response,omitempty"`
	Message  *AppendedMessage    `json:"message,omitempty"`
	Call     *types.CallSnapshot `json:"call,omitempty"`
}

type AppendedMessage struct {
	ChannelId string        `json:"channel_id"`
	Message   types.Message `json:"message"`
}

type Response struct {
	ResponseCode int            `json:"response_code"`
	Error        string         `json:"error,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

func NoErrOK(id int, data map[string]any) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: chat.Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusOK,
			Data:         data,
		},
	}
}

func NoErrAccepted(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: chat.Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusAccepted,
		},
	}
}

func ErrBadRequest(id int, reason string) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: chat.Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusBadRequest,
			Error:        reason,
		},
	}
}

func ErrConflict(id int, reason string) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: chat.Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusConflict,
			Error:        reason,
		},
	}
}

func ErrInvalidMessage(id int) *ServerMessage {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: chat.Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusBadRequest,
			Error:        "invalid message format",
		},
	}

	if id > 0 {
		msg.Id = id
	}
	return msg
}

func appendedMessage(channelId string, m types.Message) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{Timestamp: chat.Now()},
		Message: &AppendedMessage{
			ChannelId: channelId,
			Message:   m,
		},
	}
}

func callUpdate(snap types.CallSnapshot) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{Timestamp: chat.Now()},
		Call:        &snap,
	}
}
