package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Size of each watcher's send buffer
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// watcher is one read-only subscriber to a game's views.
type watcher struct {
	send chan []byte
}

// watchHub fans game views out to websocket watchers, keyed by game ID.
type watchHub struct {
	mu      sync.Mutex
	subs    map[string]map[*watcher]struct{}
	closing chan struct{}
	once    sync.Once
}

func newWatchHub() *watchHub {
	return &watchHub{
		subs:    make(map[string]map[*watcher]struct{}),
		closing: make(chan struct{}),
	}
}

// shutdown ends every open watch stream.
func (h *watchHub) shutdown() {
	h.once.Do(func() { close(h.closing) })
}

func (h *watchHub) subscribe(gameID string) *watcher {
	w := &watcher{send: make(chan []byte, sendBufferSize)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*watcher]struct{})
	}
	h.subs[gameID][w] = struct{}{}
	return w
}

func (h *watchHub) unsubscribe(gameID string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[gameID], w)
	if len(h.subs[gameID]) == 0 {
		delete(h.subs, gameID)
	}
}

// publish sends v to every watcher of its game. Slow watchers drop frames.
func (h *watchHub) publish(v game.View) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("gameId", v.ID).Msg("marshal view")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.subs[v.ID] {
		select {
		case w.send <- data:
		default:
			log.Warn().Str("gameId", v.ID).Msg("watch buffer full, view dropped")
		}
	}
}

// handleWatch streams the game's view on connect and after every guess.
// Browsers cannot set headers on a websocket handshake, so the ticket rides
// in the query string.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bound, err := s.tickets.verify(r.URL.Query().Get("ticket"))
	if err != nil || bound != id {
		writeError(w, http.StatusUnauthorized, "invalid_ticket")
		return
	}

	// Subscribe before the snapshot so no guess slips between the two.
	sub := s.watch.subscribe(id)
	defer s.watch.unsubscribe(id, sub)

	v, err := s.store.View(r.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Read side only tracks liveness; watchers never send commands.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(msgType int, data []byte) error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(msgType, data)
	}

	first, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("gameId", id).Msg("marshal view")
		return
	}
	if err := write(websocket.TextMessage, first); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case data := <-sub.send:
			if err := write(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-s.watch.closing:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = write(websocket.CloseMessage, msg)
			return
		}
	}
}
