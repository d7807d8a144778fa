//go:build tinygo

package core

import "sync/atomic"

// getSystemTicks returns the current system ticks
func getSystemTicks() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// setSystemTicks sets the system ticks
func setSystemTicks(ms uint32) {
	atomic.StoreUint32(&systemTicks, ms)
}
