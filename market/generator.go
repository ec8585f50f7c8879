package market

import (
	"math"
	"math/rand"
)

const (
	liveChangeStdPct = 0.5     // percent
	liveWickPct      = 0.002   // high/low padding around the body
	liveVolumeStd    = 200_000 // shares
)

// Generator synthesizes the next daily bar from the previous one. The random
// source is injected so a seeded run is reproducible.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator is NewGenerator(rand.NewSource(seed)).
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.NewSource(seed))
}

// Next opens at prev.Close and moves by a N(0, 0.5%) change. High and low sit
// 0.2% outside the body; volume drifts by N(0, 200k) and never goes negative.
func (g *Generator) Next(prev Bar, label string) Bar {
	change := g.rng.NormFloat64() * liveChangeStdPct / 100.0

	b := Bar{
		Date:  label,
		Open:  prev.Close,
		Close: prev.Close * (1.0 + change),
	}
	b.High = math.Max(b.Open, b.Close) * (1.0 + liveWickPct)
	b.Low = math.Min(b.Open, b.Close) * (1.0 - liveWickPct)

	delta := int64(math.Round(g.rng.NormFloat64() * liveVolumeStd))
	b.Volume = prev.Volume + delta
	if b.Volume < 0 {
		b.Volume = 0
	}
	return b
}
