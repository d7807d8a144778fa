//go:build tinygo && avr

// Firmware for the Arduino Mega 2560: streams random blocks over UART0.
//
//	tinygo flash -target=arduino-mega2560 ./targets/atmega2560
//	tinygo flash -target=arduino-mega2560 -ldflags "-X main.mode=motion" ./targets/atmega2560
package main

import (
	"machine"

	"megarng/core"
	"megarng/firmware"
	"megarng/rng"
	"megarng/sensors/mpu6050"
)

const (
	baudRate   = 115200
	blockSize  = 16
	ledPin     = 7    // PB7, the on-board LED
	retryDelay = 2000 // ms to wait after a sensor failure
)

// mode is set at link time: "analog" (default) or "motion"
var mode = "analog"

func main() {
	machine.UART0.Configure(machine.UARTConfig{BaudRate: baudRate})

	core.SetDelayer(core.SleepDelay{})
	machine.InitADC()
	core.SetAnalogPins(core.AnalogPins{core.NewADCChannel(machine.ADC0)})

	led, _ := core.MustAcquirePort(core.PortB).Pin(ledPin)
	led.Output()
	led.Low()

	m, ok := rng.ParseMode(mode)
	if !ok {
		m = rng.ModeAnalog
	}

	var sensor rng.MotionSensor
	if m == rng.ModeMotion {
		if err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz}); err != nil {
			fail(led)
		}
		core.SetI2CBus(machine.I2C0)
		sensor = mpu6050.New(core.MustI2C())
	}

	gen := rng.New(m, core.MustAnalog(), sensor, core.MustDelay()).Generator()
	s := firmware.NewStreamer(gen, m, machine.UART0, led, blockSize)
	if err := s.Identify(); err != nil {
		fail(led)
	}

	for {
		if err := s.Step(); err != nil {
			core.MustDelay().DelayMs(retryDelay)
		}
	}
}

// fail blinks the LED forever.
func fail(led core.Pin) {
	for {
		led.Toggle()
		core.MustDelay().DelayMs(100)
	}
}
