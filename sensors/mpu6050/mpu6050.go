// Package mpu6050 exposes an InvenSense MPU6050 as a motion entropy source.
//
// Configuration goes through the tinygo.org/x/drivers device. Samples are
// read as raw register bursts because the driver's scaled µg and µ°/s values
// hide the jitter in the low bits.
package mpu6050

import (
	"errors"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mpu6050"

	"megarng/rng"
)

var (
	ErrNotConnected = errors.New("mpu6050: device not responding")
	ErrNotStarted   = errors.New("mpu6050: Begin not called")
)

// Full-scale select fields live in bits 4:3 of GYRO_CONFIG and ACCEL_CONFIG.
const fsSelShift = 3

// Sensor is an MPU6050 on an I2C bus.
type Sensor struct {
	bus     drivers.I2C
	dev     mpu6050.Device
	started bool

	accel [3]int16
	gyro  [3]int16
	buf   [6]byte
}

// New creates a sensor at the default address (0x68). The bus must already
// be configured.
func New(bus drivers.I2C) *Sensor {
	return &Sensor{bus: bus, dev: mpu6050.New(bus)}
}

// NewAt creates a sensor at addr, for boards with AD0 pulled high (0x69).
func NewAt(bus drivers.I2C, addr uint16) *Sensor {
	s := New(bus)
	s.dev.Address = addr
	return s
}

// Address returns the 7-bit bus address.
func (s *Sensor) Address() uint16 {
	return s.dev.Address
}

// Begin checks WHO_AM_I, wakes the device on the X gyro PLL clock and sets
// both full-scale ranges.
func (s *Sensor) Begin(scale rng.GyroScale, accelRange rng.AccelRange) error {
	if !s.dev.Connected() {
		return ErrNotConnected
	}
	if err := s.dev.SetClockSource(mpu6050.CLOCK_PLL_XGYRO); err != nil {
		return err
	}
	if err := s.dev.SetFullScaleGyroRange(uint8(scale&0x3) << fsSelShift); err != nil {
		return err
	}
	if err := s.dev.SetFullScaleAccelRange(uint8(accelRange&0x3) << fsSelShift); err != nil {
		return err
	}
	s.started = true
	return nil
}

// ReadGyro latches the three gyroscope axes.
func (s *Sensor) ReadGyro() error {
	return s.burst(mpu6050.GYRO_XOUT_H, &s.gyro)
}

// ReadAccel latches the three accelerometer axes.
func (s *Sensor) ReadAccel() error {
	return s.burst(mpu6050.ACCEL_XOUT_H, &s.accel)
}

// AccelOutput returns the last accelerometer sample, X Y Z.
func (s *Sensor) AccelOutput() [3]int16 {
	return s.accel
}

// GyroOutput returns the last gyroscope sample, X Y Z.
func (s *Sensor) GyroOutput() [3]int16 {
	return s.gyro
}

func (s *Sensor) burst(reg uint8, out *[3]int16) error {
	if !s.started {
		return ErrNotStarted
	}
	if err := s.bus.Tx(s.dev.Address, []byte{reg}, s.buf[:]); err != nil {
		return err
	}
	for i := range out {
		out[i] = int16(uint16(s.buf[2*i])<<8 | uint16(s.buf[2*i+1]))
	}
	return nil
}

var _ rng.MotionSensor = (*Sensor)(nil)
