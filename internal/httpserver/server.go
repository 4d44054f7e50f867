// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, POST /game/guess, GET /game/{id},
//     GET /game/{id}/watch (websocket).
//   - Daily Challenge endpoints: mounted under /daily.
//
// Notes:
//   - Every game is bound to a signed ticket issued at creation; guess and
//     view routes require it as a bearer token.
//   - Games live in the in-memory store; each guess runs under the store's
//     per-game lock, so one game is never scored concurrently.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/store"
)

// Server bundles router, in-memory game store, and session DB handle.
type Server struct {
	r       *chi.Mux
	cfg     *config.Config
	store   store.Store
	tickets *ticketIssuer
	watch   *watchHub
	src     game.Source
	daily   *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
// db may be nil, in which case daily results are not recorded.
func New(cfg *config.Config, st store.Store, db *sql.DB, src game.Source) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		tickets: newTicketIssuer(cfg.Server.JWTSecret, cfg.Server.TicketTTL),
		watch:   newWatchHub(),
		src:     src,
	}
	if db != nil {
		s.daily = newDailyServer(s, daily.NewStore(db))
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)       // zerolog request line
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(cors(cfg.Server.ClientOrigin))

	// Websocket stream stays outside the handler timeout.
	s.r.Get("/game/{id}/watch", s.handleWatch)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"service":"mastermind","endpoints":["/health","POST /game/new","POST /game/guess","GET /game/{id}","/daily/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Post("/game/new", s.handleNewGame)
		r.With(s.requireTicket).Post("/game/guess", s.handleGuess)
		r.With(s.requireTicket).Get("/game/{id}", s.handleView)

		if s.daily != nil {
			s.daily.mount(r)
		}
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

// Run serves HTTP on addr until ctx is done, then shuts down gracefully.
// Watch streams are closed when shutdown begins.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.RegisterOnShutdown(s.watch.shutdown)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Reap evicts games older than the ticket lifetime every interval until ctx
// is done.
func (s *Server) Reap(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.reap(ctx, now)
		}
	}
}

func (s *Server) reap(ctx context.Context, now time.Time) {
	n := s.store.Prune(ctx, now.Add(-s.tickets.ttl))
	if s.daily != nil {
		s.daily.forgetBefore(daily.DateKey(now))
	}
	if n > 0 {
		log.Info().Int("games", n).Msg("pruned expired games")
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("reqId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// writeError writes {"error": code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, game.ErrFinished):
		return http.StatusConflict, "game_finished"
	case errors.Is(err, game.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_config"
	case errors.Is(err, game.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_guess"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Pegs   int       `json:"pegs"`   // optional, defaults to configured pegs
	Turns  int       `json:"turns"`  // optional, defaults to configured turns
	Answer game.Code `json:"answer"` // optional fixed answer (ignored in production)
}
type newGameRes struct {
	GameID string       `json:"gameId"`
	Ticket string       `json:"ticket"`
	Pegs   int          `json:"pegs"`
	Turns  int          `json:"turns"`
	Colors []game.Color `json:"colors"`
}

// handleNewGame creates a new in-memory game and issues its ticket.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	cfg := s.cfg.Game
	if req.Pegs != 0 {
		cfg.Pegs = req.Pegs
	}
	if req.Turns != 0 {
		cfg.Turns = req.Turns
	}

	var (
		g   *game.Game
		err error
	)
	if len(req.Answer) > 0 && !s.cfg.IsProduction() {
		g, err = game.NewWithAnswer(cfg, req.Answer)
	} else {
		g, err = game.New(cfg, s.src)
	}
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code)
		return
	}
	s.createGame(w, r, g)
}

// createGame saves g, signs its ticket and writes newGameRes.
func (s *Server) createGame(w http.ResponseWriter, r *http.Request, g *game.Game) {
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, err := s.tickets.sign(g.ID)
	if err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("sign ticket")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	log.Info().Str("gameId", g.ID).Int("pegs", g.Pegs).Int("turns", g.Turns).Msg("game created")
	_ = json.NewEncoder(w).Encode(newGameRes{
		GameID: g.ID,
		Ticket: tok,
		Pegs:   g.Pegs,
		Turns:  g.Turns,
		Colors: game.Palette(),
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	Guess game.Code `json:"guess"`
}
type guessRes struct {
	game.Feedback
	State  game.State `json:"state"` // "playing" | "won" | "lost"
	Turn   int        `json:"turn"`
	Answer game.Code  `json:"answer,omitempty"`
}

// handleGuess applies a guess to the ticket's game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	id := ticketGame(r.Context())
	if s.daily != nil && s.daily.owns(id) {
		writeError(w, http.StatusConflict, "daily_game")
		return
	}
	res, _, err := s.applyGuess(r.Context(), id, req.Guess)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// applyGuess scores guess under the game's lock and fans the new view out
// to watchers.
func (s *Server) applyGuess(ctx context.Context, id string, guess game.Code) (guessRes, game.View, error) {
	var (
		res  guessRes
		view game.View
	)
	err := s.store.Update(ctx, id, func(g *game.Game) error {
		fb, st, err := g.ApplyGuess(guess)
		if err != nil {
			return err
		}
		view = g.View()
		res = guessRes{Feedback: fb, State: st, Turn: g.TurnIndex(), Answer: view.Answer}
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("gameId", id).Msg("guess rejected")
		return guessRes{}, game.View{}, err
	}
	if res.State.Terminal() {
		log.Info().Str("gameId", id).Str("state", string(res.State)).Int("turns", res.Turn).Msg("game finished")
	}
	s.watch.publish(view)
	return res, view, nil
}

// handleView returns the read-only view of the ticket's game.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != ticketGame(r.Context()) {
		writeError(w, http.StatusForbidden, "wrong_game")
		return
	}
	v, err := s.store.View(r.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
