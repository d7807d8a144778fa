package rng

import (
	"errors"
	"io"

	"megarng/core"
)

var ErrModeMismatch = errors.New("generator accessor does not match mode")

// Mode selects the entropy source of a RandomNumberGenerator.
type Mode uint8

const (
	ModeAnalog Mode = iota
	ModeMotion
)

func (m Mode) String() string {
	switch m {
	case ModeAnalog:
		return "analog"
	case ModeMotion:
		return "motion"
	default:
		return "unknown"
	}
}

// ParseMode accepts "analog" and "motion" (or "mpu").
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "analog":
		return ModeAnalog, true
	case "motion", "mpu":
		return ModeMotion, true
	}
	return 0, false
}

// Generator produces one random byte per call.
type Generator interface {
	Generate() (uint8, error)
}

// RandomNumberGenerator binds one mode to its collaborators. The typed
// generators returned by Generator are the preferred API; the mode-checked
// accessors exist for callers that carry the mode around at runtime.
type RandomNumberGenerator struct {
	mode   Mode
	analog *AnalogGenerator
	motion *MotionGenerator
}

// New builds a generator for mode. pins is used in analog mode (channel 0)
// and sensor in motion mode; the other may be nil. A missing collaborator or
// unknown mode panics.
func New(mode Mode, pins core.AnalogPins, sensor MotionSensor, delay core.Delayer) *RandomNumberGenerator {
	if delay == nil {
		panic("rng: no delay provider")
	}
	r := &RandomNumberGenerator{mode: mode}
	switch mode {
	case ModeAnalog:
		ch := pins.Channel(0)
		if ch == nil {
			panic("rng: analog mode needs analog channel 0")
		}
		r.analog = NewAnalog(ch, delay)
	case ModeMotion:
		if sensor == nil {
			panic("rng: motion mode needs a motion sensor")
		}
		r.motion = NewMotion(sensor, delay)
	default:
		panic("rng: unknown mode " + core.Itoa(int(mode)))
	}
	return r
}

// Mode returns the mode fixed at construction.
func (r *RandomNumberGenerator) Mode() Mode {
	return r.mode
}

// Generator returns the typed generator for the active mode.
func (r *RandomNumberGenerator) Generator() Generator {
	if r.mode == ModeMotion {
		return r.motion
	}
	return r.analog
}

// GenerateByAnalog produces an analog byte. Calling it in motion mode is a
// programming error and panics with ErrModeMismatch.
func (r *RandomNumberGenerator) GenerateByAnalog() uint8 {
	if r.mode != ModeAnalog {
		r.mismatch("GenerateByAnalog")
	}
	v, _ := r.analog.Generate()
	return v
}

// GenerateByMPU produces a motion byte. Calling it in analog mode panics
// with ErrModeMismatch.
func (r *RandomNumberGenerator) GenerateByMPU() (uint8, error) {
	if r.mode != ModeMotion {
		r.mismatch("GenerateByMPU")
	}
	return r.motion.Generate()
}

func (r *RandomNumberGenerator) mismatch(accessor string) {
	core.DebugPrintln("[RNG] " + accessor + " called in " + r.mode.String() + " mode")
	panic(ErrModeMismatch)
}

// Reader adapts a Generator to io.Reader.
type Reader struct {
	gen Generator
}

// NewReader returns a reader that calls gen once per byte.
func NewReader(gen Generator) *Reader {
	return &Reader{gen: gen}
}

// Read fills p. On a generator error it returns the bytes produced so far.
func (r *Reader) Read(p []byte) (int, error) {
	for i := range p {
		v, err := r.gen.Generate()
		if err != nil {
			return i, err
		}
		p[i] = v
	}
	return len(p), nil
}

var _ io.Reader = (*Reader)(nil)
