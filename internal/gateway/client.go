package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/call"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket view onto the single local session. More than
// one may be open (a reconnecting page), all observing the same state.
type Client struct {
	conn *websocket.Conn
	app  *App
	log  *zap.SugaredLogger
	send chan *ServerMessage
	stop chan struct{}
}

func newClient(conn *websocket.Conn, app *App, log *zap.SugaredLogger) *Client {
	return &Client{
		conn: conn,
		app:  app,
		log:  log,
		send: make(chan *ServerMessage, 256),
		stop: make(chan struct{}),
	}
}

func (c *Client) write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Debug("write pump exiting")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := json.Marshal(msg)
			if err != nil {
				c.log.Warnf("serialize message: %v", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) read() {
	defer func() {
		c.conn.Close()
		c.app.deregister(c)
		c.log.Debug("read pump exiting")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Warnf("ws read: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Warnf("parse message: %v", err)
			c.queueMessage(ErrInvalidMessage(-1))
			continue
		}

		c.dispatch(&msg)
	}
}

func (c *Client) dispatch(msg *ClientMessage) {
	switch {
	case msg.Publish != nil:
		if _, ok := c.app.session.SubmitText(msg.Publish.Text); ok {
			c.queueMessage(NoErrAccepted(msg.Id))
		} else {
			// blank submissions are silently dropped
			c.queueMessage(NoErrOK(msg.Id, nil))
		}
	case msg.Compose != nil:
		c.app.session.SetInput(msg.Compose.Text)
		c.queueMessage(NoErrOK(msg.Id, nil))
	case msg.Emoji != nil:
		c.app.session.InsertEmoji(*msg.Emoji)
		c.queueMessage(NoErrOK(msg.Id, map[string]any{"input": c.app.session.Input()}))
	case msg.Select != nil:
		if err := c.app.session.SelectChannel(msg.Select.CategoryId, msg.Select.ChannelId); err != nil {
			c.queueMessage(ErrBadRequest(msg.Id, err.Error()))
			return
		}
		c.queueMessage(NoErrOK(msg.Id, map[string]any{
			"messages": c.app.session.ActiveMessages(),
		}))
	case msg.Capture != nil:
		c.handleCapture(msg)
	case msg.Call != nil:
		c.handleCall(msg)
	case msg.Playback != nil:
		c.handlePlayback(msg)
	default:
		c.queueMessage(ErrInvalidMessage(msg.Id))
	}
}

func (c *Client) handleCapture(msg *ClientMessage) {
	if msg.Capture.Start {
		if err := c.app.session.StartCapture(context.Background()); err != nil {
			// capture simply does not start; the client returns to idle
			c.queueMessage(ErrConflict(msg.Id, err.Error()))
			return
		}
		c.queueMessage(NoErrOK(msg.Id, nil))
		return
	}

	if _, err := c.app.session.StopCapture(); err != nil {
		c.queueMessage(ErrConflict(msg.Id, err.Error()))
		return
	}
	c.queueMessage(NoErrOK(msg.Id, nil))
}

func (c *Client) handleCall(msg *ClientMessage) {
	var err error
	switch msg.Call.Op {
	case "start":
		err = c.app.sim.Start()
	case "accept":
		err = c.app.sim.Accept()
	case "reject":
		err = c.app.sim.Reject()
	case "hangup":
		err = c.app.sim.HangUp()
	case "mute":
		err = c.app.sim.ToggleMute()
	case "speaker":
		err = c.app.sim.ToggleSpeaker()
	default:
		c.queueMessage(ErrInvalidMessage(msg.Id))
		return
	}

	if err != nil {
		if err == call.ErrCallInProgress {
			c.queueMessage(ErrConflict(msg.Id, err.Error()))
		} else {
			c.queueMessage(ErrBadRequest(msg.Id, err.Error()))
		}
		return
	}

	c.queueMessage(NoErrOK(msg.Id, nil))
}

func (c *Client) handlePlayback(msg *ClientMessage) {
	switch msg.Playback.Op {
	case "play":
		c.app.session.StartPlayback(msg.Playback.MessageId)
	case "pause":
		c.app.session.PausePlayback(msg.Playback.MessageId)
	case "ended":
		c.app.session.PlaybackEnded(msg.Playback.MessageId)
	default:
		c.queueMessage(ErrInvalidMessage(msg.Id))
		return
	}

	c.queueMessage(NoErrOK(msg.Id, nil))
}

func (c *Client) queueMessage(msg *ServerMessage) bool {
	select {
	case c.send <- msg:
	default:
		c.log.Warn("client send channel full, dropping message")
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Warnf("write message: %v", err)
		}
		return false
	}

	return true
}
