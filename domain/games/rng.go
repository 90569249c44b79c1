package games

import "math/rand"

// RandomSource is the randomness used by every game. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

type globalSource struct{}

func (globalSource) Intn(n int) int    { return rand.Intn(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns a RandomSource backed by the goroutine-safe global generator
func DefaultSource() RandomSource {
	return globalSource{}
}
