package daily

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/mastermind/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives a deterministic seed from a keyed BLAKE2b-256 of the date key.
// The salt is hashed down to a 32-byte key so any length is accepted.
func Seed(date, salt string) int64 {
	key := blake2b.Sum256([]byte(salt))
	h, err := blake2b.New256(key[:])
	if err != nil {
		// unreachable: a 32-byte key is always within blake2b's limit
		panic(err)
	}
	h.Write([]byte(date))
	sum := h.Sum(nil)
	// take first 8 bytes as the seed
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Code returns the day's answer for the given peg count.
func Code(date, salt string, pegs int) game.Code {
	return game.RandomCode(game.NewSeededSource(Seed(date, salt)), pegs)
}
