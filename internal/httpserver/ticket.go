package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ticketIssuer signs and verifies HS256 tickets whose subject is a game ID.
type ticketIssuer struct {
	secret []byte
	ttl    time.Duration
}

func newTicketIssuer(secret string, ttl time.Duration) *ticketIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ticketIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *ticketIssuer) sign(gameID string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	})
	return tok.SignedString(t.secret)
}

// verify returns the game ID bound to a valid ticket.
func (t *ticketIssuer) verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !tok.Valid || claims.Subject == "" {
		return "", errors.New("ticket: no game bound")
	}
	return claims.Subject, nil
}

// bearer extracts a token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ctxGameKey is the context key type for the ticket's game ID.
type ctxGameKey struct{}

// ticketGame returns the game ID placed in ctx by requireTicket.
func ticketGame(ctx context.Context) string {
	id, _ := ctx.Value(ctxGameKey{}).(string)
	return id
}

// requireTicket enforces a valid ticket and injects its game ID.
func (s *Server) requireTicket(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "missing_ticket")
			return
		}
		id, err := s.tickets.verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_ticket")
			return
		}
		ctx := context.WithValue(r.Context(), ctxGameKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
