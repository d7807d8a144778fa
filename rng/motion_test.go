package rng

import (
	"errors"
	"testing"

	"github.com/go-test/deep"

	"megarng/core"
)

type fakeSensor struct {
	accel, gyro [3]int16
	calls       []string
	beginErr    error
	accelErr    error
	scale       GyroScale
	rng         AccelRange
}

func (f *fakeSensor) Begin(scale GyroScale, rng AccelRange) error {
	f.calls = append(f.calls, "begin")
	f.scale, f.rng = scale, rng
	return f.beginErr
}

func (f *fakeSensor) ReadGyro() error {
	f.calls = append(f.calls, "gyro")
	return nil
}

func (f *fakeSensor) ReadAccel() error {
	f.calls = append(f.calls, "accel")
	return f.accelErr
}

func (f *fakeSensor) AccelOutput() [3]int16 { return f.accel }
func (f *fakeSensor) GyroOutput() [3]int16  { return f.gyro }

func TestMixMotion(t *testing.T) {
	testCases := []struct {
		name     string
		sample   MotionSample
		expected uint8
	}{
		{"all zero", MotionSample{}, 0},
		{"accel x = 1", MotionSample{AccelX: 1}, 109},
		{"gyro x = 1", MotionSample{GyroX: 1}, 65},
		{"accel z = 4", MotionSample{AccelZ: 4}, XorShift(0x41)},
	}
	for _, tc := range testCases {
		if got := MixMotion(tc.sample); got != tc.expected {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.expected, got)
		}
	}
}

func TestMotionSampleTruncates(t *testing.T) {
	s := &fakeSensor{
		accel: [3]int16{0x1201, -1, 300},
		gyro:  [3]int16{-256, 0x7F80, 5},
	}
	d := &core.VirtualDelay{}
	got, err := NewMotion(s, d).Sample()
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	expected := MotionSample{
		AccelX: 0x01, AccelY: 0xFF, AccelZ: 44,
		GyroX: 0x00, GyroY: 0x80, GyroZ: 5,
	}
	if diff := deep.Equal(got, expected); diff != nil {
		t.Errorf("Sample: %v", diff)
	}
	if diff := deep.Equal(s.calls, []string{"begin", "gyro", "accel"}); diff != nil {
		t.Errorf("Call order: %v", diff)
	}
	if s.scale != Scale250DPS || s.rng != Range2G {
		t.Errorf("Expected 250dps/2g, got %d/%d", s.scale, s.rng)
	}
	if d.Calls != 2 || d.Total != 2*MotionSettleMs {
		t.Errorf("Expected two %dms settles, got %d / %dms", MotionSettleMs, d.Calls, d.Total)
	}
}

func TestMotionGenerate(t *testing.T) {
	s := &fakeSensor{accel: [3]int16{1, 0, 0}}
	got, err := NewMotion(s, &core.VirtualDelay{}).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != 109 {
		t.Errorf("Expected 109, got %d", got)
	}
}

func TestMotionGeneratePropagatesSensorErrors(t *testing.T) {
	errBus := errors.New("i2c nack")

	s := &fakeSensor{beginErr: errBus}
	if _, err := NewMotion(s, &core.VirtualDelay{}).Generate(); !errors.Is(err, errBus) {
		t.Errorf("Expected begin error, got %v", err)
	}

	s = &fakeSensor{accelErr: errBus}
	d := &core.VirtualDelay{}
	if _, err := NewMotion(s, d).Generate(); !errors.Is(err, errBus) {
		t.Errorf("Expected accel error, got %v", err)
	}
	if d.Calls != 1 {
		t.Errorf("Expected one settle before the failed accel read, got %d", d.Calls)
	}
}
