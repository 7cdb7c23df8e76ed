package gateway

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

type SelectChannelRequest struct {
	CategoryId string `json:"category_id"`
	ChannelId  string `json:"channel_id"`
}

func (a *App) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Warnf("json encode: %v", err)
	}
}

func (a *App) getDirectory(w http.ResponseWriter, r *http.Request) {
	dir := a.session.Directory()
	a.writeJson(w, http.StatusOK, map[string]any{
		"categories":   dir.Categories(),
		"users":        dir.Users(),
		"current_user": dir.CurrentUser(),
	})
}

func (a *App) getSession(w http.ResponseWriter, r *http.Request) {
	cat, ch := a.session.Current()
	a.writeJson(w, http.StatusOK, map[string]any{
		"category":  cat,
		"channel":   ch,
		"input":     a.session.Input(),
		"recording": a.session.Recording(),
		"call":      a.sim.Snapshot(),
	})
}

func (a *App) selectChannel(w http.ResponseWriter, r *http.Request) {
	var req SelectChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError(err)
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := a.session.SelectChannel(req.CategoryId, req.ChannelId); err != nil {
		errResp := NewBadRequestError(err)
		a.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	a.writeJson(w, http.StatusOK, map[string]any{
		"messages": a.session.ActiveMessages(),
	})
}

func (a *App) getMessages(w http.ResponseWriter, r *http.Request) {
	channelId := r.URL.Query().Get("channel")
	if channelId == "" {
		a.writeJson(w, http.StatusOK, map[string]any{
			"messages": a.session.ActiveMessages(),
		})
		return
	}

	a.writeJson(w, http.StatusOK, map[string]any{
		"messages": a.session.Messages(channelId),
	})
}

func (a *App) serveWs(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(a.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Warnf("upgrading connection: %v", err)
		return
	}

	client := newClient(conn, a, a.log)
	a.register(client)

	go client.write()
	go client.read()
}
