package core

// AnalogChannel is one analog input. Read performs a blocking conversion and
// returns the raw sample; only its low byte is consumed by the noise paths.
type AnalogChannel interface {
	Read() uint16
}

// AnalogFunc adapts a plain function to AnalogChannel.
type AnalogFunc func() uint16

func (f AnalogFunc) Read() uint16 { return f() }

// AnalogPins is the indexable set of analog channels on a board.
type AnalogPins []AnalogChannel

// Channel returns channel i or nil when out of range.
func (a AnalogPins) Channel(i int) AnalogChannel {
	if i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// Global singleton used by core code.
var analogPins AnalogPins

// SetAnalogPins is called by target-specific code to register its channels.
func SetAnalogPins(pins AnalogPins) {
	analogPins = pins
}

// MustAnalog returns the configured channels or panics if none.
func MustAnalog() AnalogPins {
	if len(analogPins) == 0 {
		panic("analog pins not configured")
	}
	return analogPins
}
