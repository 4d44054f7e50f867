// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's game for a player
//   - POST /daily/guess       → submit a guess for that game (ticket required)
//   - GET  /daily/leaderboard → winners for today (or a given date)
//
// Everyone gets the same code for a date (keyed hash of date + salt).
// Each player name can finish once per day; finished games are recorded in
// the session database.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // keyed by player|date
	byGame   map[string]*dailySession // keyed by game ID
	mu       sync.Mutex               // guards sessions and byGame
}

// dailySession links an in-memory game to a player and date.
type dailySession struct {
	GameID string
	Player string
	Date   string
	Start  time.Time
}

func newDailyServer(s *Server, st *daily.Store) *dailyServer {
	return &dailyServer{
		srv:      s,
		store:    st,
		salt:     s.cfg.Daily.Salt,
		sessions: make(map[string]*dailySession),
		byGame:   make(map[string]*dailySession),
	}
}

// mount registers all /daily routes.
func (d *dailyServer) mount(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.With(d.srv.requireTicket).Post("/guess", d.handleGuess)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

// validatePlayer enforces basic player-name rules.
func validatePlayer(p string) error {
	if len(p) < 3 || len(p) > 24 {
		return errors.New("player must be 3–24 chars")
	}
	for _, r := range p {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("player: letters, numbers, underscore only")
		}
	}
	return nil
}

// owns reports whether id is an active daily game.
func (d *dailyServer) owns(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.byGame[id]
	return ok
}

// forgetBefore drops sessions for dates before date.
func (d *dailyServer) forgetBefore(date string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, sess := range d.sessions {
		if sess.Date < date {
			delete(d.sessions, key)
			delete(d.byGame, sess.GameID)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewReq struct {
	Player string `json:"player"`
}

type dailyNewRes struct {
	GameID string `json:"gameId,omitempty"`
	Ticket string `json:"ticket,omitempty"`
	Date   string `json:"date"`
	Pegs   int    `json:"pegs"`
	Turns  int    `json:"turns"`
	Played bool   `json:"played"`
}

// handleNew creates or resumes the player's daily game.
// - If the player already finished today → Played=true.
// - Otherwise reuse the in-memory session or create one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	var req dailyNewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	player := strings.TrimSpace(req.Player)
	if err := validatePlayer(player); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := d.srv.cfg.Game
	date := daily.DateKey(time.Now())
	res := dailyNewRes{Date: date, Pegs: cfg.Pegs, Turns: cfg.Turns}

	played, err := d.store.AlreadyPlayed(r.Context(), player, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		res.Played = true
		_ = json.NewEncoder(w).Encode(res)
		return
	}

	sess, err := d.session(r, player, date)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code)
		return
	}

	tok, err := d.srv.tickets.sign(sess.GameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	res.GameID, res.Ticket = sess.GameID, tok
	_ = json.NewEncoder(w).Encode(res)
}

// session returns the player's open session for date, starting a game if
// there is none.
func (d *dailyServer) session(r *http.Request, player, date string) (*dailySession, error) {
	cfg := d.srv.cfg.Game
	if err := cfg.Validate(); err != nil {
		// A bad server config is not the client's fault.
		log.Error().Err(err).Msg("daily game config")
		return nil, fmt.Errorf("daily config: %v", err)
	}
	key := player + "|" + date

	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		return sess, nil
	}
	g, err := game.NewWithAnswer(cfg, daily.Code(date, d.salt, cfg.Pegs))
	if err != nil {
		return nil, err
	}
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		return nil, fmt.Errorf("save daily game: %w", err)
	}
	sess := &dailySession{GameID: g.ID, Player: player, Date: date, Start: time.Now()}
	d.sessions[key] = sess
	d.byGame[g.ID] = sess
	return sess, nil
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a guess to the ticket's daily game and records the
// result once the game ends.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	id := ticketGame(r.Context())
	d.mu.Lock()
	sess, ok := d.byGame[id]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res, view, err := d.srv.applyGuess(r.Context(), id, req.Guess)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code)
		return
	}

	if view.State.Terminal() {
		result := daily.Result{
			Player:    sess.Player,
			Date:      sess.Date,
			Pegs:      view.Pegs,
			Guesses:   len(view.History),
			Won:       view.State == game.StateWon,
			ElapsedMs: int(time.Since(sess.Start).Milliseconds()),
		}
		if err := d.store.InsertResult(r.Context(), result); err != nil {
			log.Warn().Err(err).Str("player", sess.Player).Msg("insert daily result")
		}
		d.mu.Lock()
		delete(d.sessions, sess.Player+"|"+sess.Date)
		delete(d.byGame, id)
		d.mu.Unlock()
	}
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
