package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/call"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/chat"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/config"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/directory"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/media"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/stats"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/store"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/testutil"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	sp := &stats.MockStatsUpdater{}
	sp.On("Incr", mock.AnythingOfType("string")).Maybe()
	sp.On("Decr", mock.AnythingOfType("string")).Maybe()

	log := testutil.TestLogger(t)
	dir := directory.Default()
	ms := store.New(dir)
	session := chat.NewSession(dir, ms, &media.MockProvider{}, sp, log)

	sim := call.NewSimulator(dir.CurrentUser(), dir.OnlinePeers(dir.CurrentUser().Id), call.Config{
		ConnectDelay:  20 * time.Millisecond,
		TeardownDelay: 20 * time.Millisecond,
		TickInterval:  10 * time.Millisecond,
		IncomingMin:   time.Hour,
		IncomingMax:   time.Hour,
	}, sp, log)
	t.Cleanup(sim.Close)

	cfg := config.Default()
	return NewApp(http.NewServeMux(), log, session, sim, sp, cfg)
}

func Test_getDirectory(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/directory", nil)
	rec := httptest.NewRecorder()
	app.srv.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories  []map[string]any `json:"categories"`
		Users       []map[string]any `json:"users"`
		CurrentUser map[string]any   `json:"current_user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Categories, 3)
	assert.Len(t, body.Users, 5)
	assert.Equal(t, "current", body.CurrentUser["id"])
}

func Test_getSession(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	app.srv.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Channel   map[string]any `json:"channel"`
		Recording bool           `json:"recording"`
		Call      map[string]any `json:"call"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "channel-1", body.Channel["id"])
	assert.False(t, body.Recording)
	assert.Equal(t, "idle", body.Call["status"])
}

func Test_selectChannel(t *testing.T) {
	tcases := []struct {
		name       string
		body       string
		statusCode int
	}{
		{
			name:       "valid pair",
			body:       `{"category_id":"cat-2","channel_id":"channel-4"}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "channel outside category",
			body:       `{"category_id":"cat-1","channel_id":"channel-4"}`,
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{`,
			statusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)

			req := httptest.NewRequest(http.MethodPost, "/api/channel", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			app.srv.Handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.statusCode, rec.Code)
		})
	}
}

func Test_getMessages(t *testing.T) {
	app := newTestApp(t)

	t.Run("named channel", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/messages?channel=channel-4", nil)
		rec := httptest.NewRecorder()
		app.srv.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Messages []map[string]any `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Len(t, body.Messages, 2)
	})

	t.Run("defaults to the active channel", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
		rec := httptest.NewRecorder()
		app.srv.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Messages []map[string]any `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Len(t, body.Messages, 3, "channel-1 is the initial selection")
	})
}

func dialTestWs(t *testing.T, app *App) *websocket.Conn {
	t.Helper()

	app.bridgeEvents()
	srv := httptest.NewServer(app.srv.Handler)
	t.Cleanup(srv.Close)

	wsUrl := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsUrl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readServerMessage(t *testing.T, conn *websocket.Conn) *ServerMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func Test_ws_publish(t *testing.T) {
	app := newTestApp(t)
	conn := dialTestWs(t, app)

	require.NoError(t, conn.WriteJSON(&ClientMessage{
		BaseMessage: BaseMessage{Id: 1},
		Publish:     &Publish{Text: "hello"},
	}))

	var gotResponse, gotMessage bool
	for i := 0; i < 2; i++ {
		msg := readServerMessage(t, conn)
		switch {
		case msg.Response != nil:
			assert.Equal(t, http.StatusAccepted, msg.Response.ResponseCode)
			gotResponse = true
		case msg.Message != nil:
			assert.Equal(t, "channel-1", msg.Message.ChannelId)
			assert.Equal(t, "hello", msg.Message.Message.Body)
			gotMessage = true
		}
	}
	assert.True(t, gotResponse, "expected an accepted response")
	assert.True(t, gotMessage, "expected the appended message to be pushed")
}

func Test_ws_blankPublish(t *testing.T) {
	app := newTestApp(t)
	conn := dialTestWs(t, app)

	require.NoError(t, conn.WriteJSON(&ClientMessage{
		BaseMessage: BaseMessage{Id: 1},
		Publish:     &Publish{Text: "   "},
	}))

	msg := readServerMessage(t, conn)
	require.NotNil(t, msg.Response)
	assert.Equal(t, http.StatusOK, msg.Response.ResponseCode, "blank sends are dropped, not errors")

	// nothing else may arrive
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var extra ServerMessage
	assert.Error(t, conn.ReadJSON(&extra), "no message event should follow a blank publish")
}

func Test_ws_selectAndCall(t *testing.T) {
	app := newTestApp(t)
	conn := dialTestWs(t, app)

	require.NoError(t, conn.WriteJSON(&ClientMessage{
		BaseMessage: BaseMessage{Id: 1},
		Select:      &Select{CategoryId: "cat-2", ChannelId: "channel-4"},
	}))
	msg := readServerMessage(t, conn)
	require.NotNil(t, msg.Response)
	assert.Equal(t, http.StatusOK, msg.Response.ResponseCode)

	require.NoError(t, conn.WriteJSON(&ClientMessage{
		BaseMessage: BaseMessage{Id: 2},
		Call:        &CallOp{Op: "start"},
	}))

	var sawConnecting, gotResponse bool
	for i := 0; i < 2; i++ {
		msg := readServerMessage(t, conn)
		switch {
		case msg.Response != nil:
			assert.Equal(t, http.StatusOK, msg.Response.ResponseCode)
			gotResponse = true
		case msg.Call != nil:
			assert.Equal(t, "connecting", string(msg.Call.Status))
			sawConnecting = true
		}
	}
	assert.True(t, gotResponse)
	assert.True(t, sawConnecting, "call transition should be pushed to the client")
}

func Test_ws_invalidEnvelope(t *testing.T) {
	app := newTestApp(t)
	conn := dialTestWs(t, app)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	msg := readServerMessage(t, conn)
	require.NotNil(t, msg.Response)
	assert.Equal(t, http.StatusBadRequest, msg.Response.ResponseCode)
}
