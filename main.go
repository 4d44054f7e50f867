package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TwiN/go-color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/store"
	"github.com/robalobadob/mastermind/internal/terminal"
)

const (
	exitOK    = 0
	exitError = 1
	exitQuit  = 130
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(exitError)
	}

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "serve" {
		setLogLevel(cfg.Logging.Level, zerolog.InfoLevel)
		os.Exit(serve(cfg))
	}
	if len(args) > 0 && args[0] == "play" {
		args = args[1:]
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	setLogLevel(os.Getenv("LOG_LEVEL"), zerolog.WarnLevel)
	os.Exit(play(cfg, args))
}

// setLogLevel applies lvl, or def when lvl is empty or unknown.
func setLogLevel(lvl string, def zerolog.Level) {
	l, err := zerolog.ParseLevel(lvl)
	if err != nil || lvl == "" {
		l = def
	}
	zerolog.SetGlobalLevel(l)
}

// play runs one game in the terminal and maps its outcome to an exit code.
func play(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	pegs := fs.Int("pegs", cfg.Game.Pegs, "code length")
	turns := fs.Int("turns", cfg.Game.Turns, "guesses allowed")
	seed := fs.Int64("seed", 0, "seed the code generator (0 draws from crypto/rand)")
	today := fs.Bool("daily", false, "play today's shared code")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	gcfg := game.Config{Pegs: *pegs, Turns: *turns}
	g, err := newGame(cfg, gcfg, *seed, *today)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mastermind:", err)
		return exitError
	}

	tty := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.Toggle(false)
	}
	out := terminal.NewRenderer(os.Stdout, tty)
	in := terminal.NewInput(os.Stdin, out)

	log.Debug().Str("game", g.ID).Int("pegs", g.Pegs).Int("turns", g.Turns).Msg("game started")
	state, err := game.Play(context.Background(), g, in, out)
	switch {
	case errors.Is(err, game.ErrQuit):
		log.Debug().Str("game", g.ID).Int("turns", g.TurnIndex()).Msg("player quit")
		fmt.Fprintln(os.Stdout, "\r\nBye.")
		return exitQuit
	case err != nil:
		log.Error().Err(err).Str("game", g.ID).Msg("game aborted")
		return exitError
	}
	log.Debug().Str("game", g.ID).Str("state", string(state)).Int("turns", g.TurnIndex()).Msg("game over")
	return exitOK
}

func newGame(cfg *config.Config, gcfg game.Config, seed int64, today bool) (*game.Game, error) {
	if today {
		if err := gcfg.Validate(); err != nil {
			return nil, err
		}
		return game.NewWithAnswer(gcfg, daily.Code(daily.DateKey(time.Now()), cfg.Daily.Salt, gcfg.Pegs))
	}
	var src game.Source = game.CryptoSource{}
	if seed != 0 {
		src = game.NewSeededSource(seed)
	}
	return game.New(gcfg, src)
}

// serve runs the HTTP API until interrupted or the listener fails.
func serve(cfg *config.Config) int {
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return exitError
	}
	db, err := openDB(cfg.Server.DSN)
	if err != nil {
		log.Error().Err(err).Msg("open session db")
		return exitError
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Error().Err(err).Msg("migrate")
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(cfg, store.NewMemoryStore(), db, game.CryptoSource{})
	go srv.Reap(ctx, 10*time.Minute)

	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Server.Env).Msg("starting mastermind server")
	if err := srv.Run(ctx, cfg.Addr()); err != nil {
		log.Error().Err(err).Msg("server exited")
		return exitError
	}
	log.Info().Msg("server stopped")
	return exitOK
}
