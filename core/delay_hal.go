package core

// Delayer blocks the caller for a number of milliseconds. There is no
// cancellation: the call returns only after the full delay.
type Delayer interface {
	DelayMs(ms uint32)
}

// DelayFunc adapts a plain function to Delayer.
type DelayFunc func(ms uint32)

func (f DelayFunc) DelayMs(ms uint32) { f(ms) }

// Global singleton used by core code.
var delayer Delayer

// SetDelayer is called by target-specific code to register its delay provider.
func SetDelayer(d Delayer) {
	delayer = d
}

// MustDelay returns the configured delay provider or panics if missing.
func MustDelay() Delayer {
	if delayer == nil {
		panic("delay provider not configured")
	}
	return delayer
}

// VirtualDelay advances the system clock instead of sleeping. Hosted builds
// and tests use it so that generator timing stays observable and instant.
type VirtualDelay struct {
	Calls int    // number of DelayMs calls
	Total uint32 // sum of requested milliseconds
}

func (v *VirtualDelay) DelayMs(ms uint32) {
	v.Calls++
	v.Total += ms
	AdvanceTime(ms)
}
