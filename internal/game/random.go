package game

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// Source supplies independent uniform draws in [0, n).
type Source interface {
	Intn(n int) int
}

// CryptoSource draws from crypto/rand. It is the default for real games.
type CryptoSource struct{}

// Intn returns a uniform value in [0, n). It panics if n <= 0, like math/rand.
func (CryptoSource) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("game: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}

// NewSeededSource returns a deterministic source for tests and daily codes.
func NewSeededSource(seed int64) Source {
	return mrand.New(mrand.NewSource(seed))
}

// RandomCode draws pegs independent colors, with replacement.
func RandomCode(src Source, pegs int) Code {
	out := make(Code, pegs)
	for i := range out {
		out[i] = palette[src.Intn(NumColors)]
	}
	return out
}
