package core

// The system clock counts milliseconds. Hosted builds advance it through
// VirtualDelay; AVR builds mirror time spent in SleepDelay.

var systemTicks uint32

// GetTime returns the current system time in milliseconds
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ms uint32) {
	setSystemTicks(ms)
}

// AdvanceTime moves the clock forward by ms, wrapping at 2^32
func AdvanceTime(ms uint32) {
	setSystemTicks(getSystemTicks() + ms)
}

// Elapsed returns the milliseconds between since and now, wrap-safe
func Elapsed(since uint32) uint32 {
	return GetTime() - since
}
