//go:build tinygo && avr

package core

import "machine"

// ADCChannel reads one ATmega2560 ADC input.
type ADCChannel struct {
	adc machine.ADC
}

// NewADCChannel configures pin for analog input. machine.InitADC must have
// been called once before.
func NewADCChannel(pin machine.Pin) *ADCChannel {
	a := machine.ADC{Pin: pin}
	a.Configure(machine.ADCConfig{})
	return &ADCChannel{adc: a}
}

// Read returns the native 10-bit conversion. machine.ADC left-aligns the
// result to 16 bits, which would leave the low byte nearly constant.
func (c *ADCChannel) Read() uint16 {
	return c.adc.Get() >> 6
}
