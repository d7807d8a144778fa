package rng

import (
	"megarng/core"
)

// Analog path sampling schedule; delays are in milliseconds
const (
	NoiseReads   = 7   // reads folded into one noise byte
	NoiseDelayMs = 20  // pause after each noise read
	Rounds       = 3   // left/right sampling rounds
	RoundDelayMs = 100 // pause before each left and right read
)

// AnalogGenerator harvests thermal and coupling noise from one analog input.
type AnalogGenerator struct {
	ch    core.AnalogChannel
	delay core.Delayer
}

// NewAnalog builds a generator reading ch and waiting through delay.
func NewAnalog(ch core.AnalogChannel, delay core.Delayer) *AnalogGenerator {
	return &AnalogGenerator{ch: ch, delay: delay}
}

func (g *AnalogGenerator) sample() uint8 {
	return uint8(g.ch.Read())
}

// Noise folds seven rotated reads into one byte, pausing after each read.
func (g *AnalogGenerator) Noise() uint8 {
	var bits uint8
	for i := uint8(1); i <= NoiseReads; i++ {
		bits = Xor(bits, Rotate(g.sample(), i))
		g.delay.DelayMs(NoiseDelayMs)
	}
	return bits
}

// Generate produces one byte. It blocks for roughly 1.2 s of delays and
// never fails.
func (g *AnalogGenerator) Generate() (uint8, error) {
	start := core.GetTime()

	bits1 := XorShift(g.Noise())
	bits1 = Xor(bits1, g.Noise())

	lbuf := g.Noise()
	rbuf := g.Noise()
	buf := Xor(lbuf, rbuf)

	var bits3 uint8
	for i := uint8(1); i <= Rounds; i++ {
		g.delay.DelayMs(RoundDelayMs)
		left := g.sample()
		g.delay.DelayMs(RoundDelayMs)
		right := g.sample()

		bits3 = Xor(bits3, Rotate(left, i))
		bits3 = Xor(bits3, Rotate(right, 7-i))

		// Differing bits 1..7 of the pair feed one of the two side buffers;
		// the parity of buf picks the side for the whole call.
		for j := uint8(1); j < 8; j++ {
			lb := (left >> j) & 1
			rb := (right >> j) & 1
			if lb == rb {
				continue
			}
			if buf%2 == 0 {
				lbuf = PushLeft(lbuf, lb)
			} else {
				rbuf = PushRight(rbuf, lb)
			}
		}
	}

	bits1 = XorShift(bits1)
	bits1 = Xor(bits1, bits3)
	out := Xor(bits1, Xor(lbuf, rbuf))

	core.RecordEvent(core.EvtAnalogByte, uint32(out), core.Elapsed(start))
	return out, nil
}
