//go:build tinygo && avr

package core

import (
	"runtime/volatile"
	"unsafe"
)

// volatileBus reaches the data space directly. Addresses are fixed by the
// silicon so every conversion below is valid for the life of the program.
type volatileBus struct{}

func (volatileBus) Load(addr uintptr) uint8 {
	return (*volatile.Register8)(unsafe.Pointer(addr)).Get()
}

func (volatileBus) Store(addr uintptr, v uint8) {
	(*volatile.Register8)(unsafe.Pointer(addr)).Set(v)
}

func init() {
	SetRegisterBus(volatileBus{})
}
