package rng

import (
	"megarng/core"
)

// GyroScale is the gyroscope full-scale range.
type GyroScale uint8

const (
	Scale250DPS GyroScale = iota
	Scale500DPS
	Scale1000DPS
	Scale2000DPS
)

// AccelRange is the accelerometer full-scale range.
type AccelRange uint8

const (
	Range2G AccelRange = iota
	Range4G
	Range8G
	Range16G
)

// Motion path settle time after each read, in milliseconds
const MotionSettleMs = 1000

// MotionSensor is the six-axis sensor consumed by the motion path.
// ReadGyro and ReadAccel latch a fresh sample into the output arrays.
type MotionSensor interface {
	Begin(scale GyroScale, rng AccelRange) error
	ReadGyro() error
	ReadAccel() error
	AccelOutput() [3]int16
	GyroOutput() [3]int16
}

// MotionSample holds the low byte of every axis.
type MotionSample struct {
	AccelX, AccelY, AccelZ uint8
	GyroX, GyroY, GyroZ    uint8
}

// MixMotion folds a sample into one byte. It is a pure function of s.
func MixMotion(s MotionSample) uint8 {
	a, b, c := s.AccelX, s.AccelY, s.AccelZ
	d, e, f := s.GyroX, s.GyroY, s.GyroZ

	a1 := (a & 0x3) << 6
	a2 := (d & 0x3) << 6
	bits1 := Xor(a1, Xor(c<<4, Xor(b<<2, Xor(a, c>>2))))
	bits2 := Xor(a2, Xor(f<<4, Xor(e<<2, Xor(d, f>>2))))

	return Xor(XorShift(bits1), bits2)
}

// MotionGenerator draws entropy from accelerometer and gyroscope jitter.
type MotionGenerator struct {
	sensor MotionSensor
	delay  core.Delayer
}

// NewMotion builds a generator. The sensor is used exclusively by it.
func NewMotion(sensor MotionSensor, delay core.Delayer) *MotionGenerator {
	return &MotionGenerator{sensor: sensor, delay: delay}
}

// Sample initialises the sensor, reads gyro then accel with a settle delay
// after each, and truncates every axis to its low byte.
func (g *MotionGenerator) Sample() (MotionSample, error) {
	if err := g.sensor.Begin(Scale250DPS, Range2G); err != nil {
		return MotionSample{}, err
	}
	if err := g.sensor.ReadGyro(); err != nil {
		return MotionSample{}, err
	}
	g.delay.DelayMs(MotionSettleMs)
	if err := g.sensor.ReadAccel(); err != nil {
		return MotionSample{}, err
	}
	g.delay.DelayMs(MotionSettleMs)

	acc := g.sensor.AccelOutput()
	gyr := g.sensor.GyroOutput()
	return MotionSample{
		AccelX: uint8(acc[0]), AccelY: uint8(acc[1]), AccelZ: uint8(acc[2]),
		GyroX: uint8(gyr[0]), GyroY: uint8(gyr[1]), GyroZ: uint8(gyr[2]),
	}, nil
}

// Generate produces one byte or the sensor error that prevented it.
func (g *MotionGenerator) Generate() (uint8, error) {
	start := core.GetTime()
	s, err := g.Sample()
	if err != nil {
		core.RecordEvent(core.EvtSensorFail, 0, core.Elapsed(start))
		return 0, err
	}
	out := MixMotion(s)
	core.RecordEvent(core.EvtMotionByte, uint32(out), core.Elapsed(start))
	return out, nil
}
