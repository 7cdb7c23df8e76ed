// Package gateway is the presentation shell: a localhost HTTP and
// websocket surface exposing the core's read models and operations to a
// single rendering client. It composes the session, the message store
// and the call simulator; it holds no domain state of its own.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/call"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/chat"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/config"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/stats"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

type App struct {
	log            *zap.SugaredLogger
	session        *chat.Session
	sim            *call.Simulator
	stats          stats.StatsProvider
	allowedOrigins []string
	srv            *http.Server

	clients     map[*Client]struct{}
	clientsLock sync.Mutex
}

func NewApp(mux *http.ServeMux, log *zap.SugaredLogger, session *chat.Session, sim *call.Simulator, sp stats.StatsProvider, cfg *config.Config) *App {
	a := &App{
		log:            log,
		session:        session,
		sim:            sim,
		stats:          sp,
		allowedOrigins: cfg.AllowedOrigins,
		clients:        make(map[*Client]struct{}),
	}

	mux.HandleFunc("GET /api/directory", a.getDirectory)
	mux.HandleFunc("GET /api/session", a.getSession)
	mux.HandleFunc("POST /api/channel", a.selectChannel)
	mux.HandleFunc("GET /api/messages", a.getMessages)
	mux.HandleFunc("GET /ws", a.serveWs)

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
		handlers.AllowCredentials(),
	)(mux)

	h = a.errorHandler(h)

	a.srv = &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	return a
}

// Start wires the core's event sources to the connected clients and
// serves. Appends arrive on the appending goroutine and call transitions
// on the simulator loop; both are handed straight to the per-client send
// queues.
func (a *App) Start() error {
	a.bridgeEvents()

	a.log.Infof("starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}

func (a *App) bridgeEvents() {
	a.session.SetAppendListener(a.onAppend)
	go a.pumpCallEvents()
}

func (a *App) onAppend(channelId string, m types.Message) {
	a.broadcast(appendedMessage(channelId, m))
}

func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down HTTP server...")

	a.clientsLock.Lock()
	for c := range a.clients {
		close(c.stop)
	}
	a.clientsLock.Unlock()

	if err := a.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}

func (a *App) pumpCallEvents() {
	for snap := range a.sim.Events() {
		a.broadcast(callUpdate(snap))
	}
}

func (a *App) broadcast(msg *ServerMessage) {
	a.clientsLock.Lock()
	defer a.clientsLock.Unlock()

	for c := range a.clients {
		c.queueMessage(msg)
	}
}

func (a *App) register(c *Client) {
	a.clientsLock.Lock()
	defer a.clientsLock.Unlock()
	a.clients[c] = struct{}{}
	a.stats.Incr(stats.ActiveConnections)
}

func (a *App) deregister(c *Client) {
	a.clientsLock.Lock()
	defer a.clientsLock.Unlock()
	if _, ok := a.clients[c]; ok {
		delete(a.clients, c)
		a.stats.Decr(stats.ActiveConnections)
	}
}

func (a *App) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				a.log.Errorf("panic: %v", panicError)
				errResp := NewInternalServerError(panicError)
				w.Header().Set("Connection", "close")
				a.writeJson(w, errResp.StatusCode, errResp)
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}
