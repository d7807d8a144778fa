package core

import "tinygo.org/x/drivers"

// Global singleton used by core code.
var i2cBus drivers.I2C

// SetI2CBus is called by target-specific code to register the configured bus
// (machine.I2C0 on the Mega).
func SetI2CBus(bus drivers.I2C) {
	i2cBus = bus
}

// MustI2C returns the configured bus or panics if missing.
func MustI2C() drivers.I2C {
	if i2cBus == nil {
		panic("I2C bus not configured")
	}
	return i2cBus
}
