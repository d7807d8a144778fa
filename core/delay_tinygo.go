//go:build tinygo

package core

import "time"

// SleepDelay blocks on the runtime timer and keeps the millisecond clock in step.
type SleepDelay struct{}

func (SleepDelay) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
	AdvanceTime(ms)
}
