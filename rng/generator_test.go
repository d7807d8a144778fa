package rng

import (
	"errors"
	"io"
	"testing"

	"megarng/core"
)

func expectModePanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected panic, got a value", name)
			return
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrModeMismatch) {
			t.Errorf("%s: expected ErrModeMismatch, got %v", name, r)
		}
	}()
	fn()
}

func TestModeMismatchIsFatal(t *testing.T) {
	pins := core.AnalogPins{core.AnalogFunc(func() uint16 { return 0 })}
	sensor := &fakeSensor{}

	motion := New(ModeMotion, nil, sensor, &core.VirtualDelay{})
	expectModePanic(t, "GenerateByAnalog in motion mode", func() {
		motion.GenerateByAnalog()
	})

	analog := New(ModeAnalog, pins, nil, &core.VirtualDelay{})
	expectModePanic(t, "GenerateByMPU in analog mode", func() {
		_, _ = analog.GenerateByMPU()
	})
	if len(sensor.calls) != 0 {
		t.Errorf("Sensor should not be touched on mismatch, got %v", sensor.calls)
	}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	pins := core.AnalogPins{core.AnalogFunc(func() uint16 { return 0 })}
	tests := []struct {
		name string
		fn   func()
	}{
		{"analog without pins", func() { New(ModeAnalog, nil, nil, &core.VirtualDelay{}) }},
		{"motion without sensor", func() { New(ModeMotion, pins, nil, &core.VirtualDelay{}) }},
		{"unknown mode", func() { New(Mode(7), pins, &fakeSensor{}, &core.VirtualDelay{}) }},
		{"no delay", func() { New(ModeAnalog, pins, nil, nil) }},
	}
	for _, tt := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tt.name)
				}
			}()
			tt.fn()
		}()
	}
}

func TestModeTaggedAccessors(t *testing.T) {
	pins := core.AnalogPins{core.AnalogFunc(func() uint16 { return 0xFF })}
	analog := New(ModeAnalog, pins, nil, &core.VirtualDelay{})
	if analog.Mode() != ModeAnalog {
		t.Errorf("Expected analog mode, got %v", analog.Mode())
	}
	if got := analog.GenerateByAnalog(); got != 0xE1 {
		t.Errorf("Expected 0xE1, got 0x%02X", got)
	}
	if _, ok := analog.Generator().(*AnalogGenerator); !ok {
		t.Errorf("Expected *AnalogGenerator, got %T", analog.Generator())
	}

	motion := New(ModeMotion, nil, &fakeSensor{accel: [3]int16{1, 0, 0}}, &core.VirtualDelay{})
	got, err := motion.GenerateByMPU()
	if err != nil || got != 109 {
		t.Errorf("Expected 109, got %d (%v)", got, err)
	}
	if _, ok := motion.Generator().(*MotionGenerator); !ok {
		t.Errorf("Expected *MotionGenerator, got %T", motion.Generator())
	}
}

func TestParseMode(t *testing.T) {
	testCases := []struct {
		in   string
		mode Mode
		ok   bool
	}{
		{"analog", ModeAnalog, true},
		{"motion", ModeMotion, true},
		{"mpu", ModeMotion, true},
		{"gyro", 0, false},
	}
	for _, tc := range testCases {
		mode, ok := ParseMode(tc.in)
		if ok != tc.ok || (ok && mode != tc.mode) {
			t.Errorf("ParseMode(%q) = %v, %v", tc.in, mode, ok)
		}
	}
	if ModeMotion.String() != "motion" || Mode(9).String() != "unknown" {
		t.Errorf("Unexpected Mode strings")
	}
}

type countingGenerator struct {
	n       uint8
	failAt  int
	calls   int
	failErr error
}

func (c *countingGenerator) Generate() (uint8, error) {
	c.calls++
	if c.failAt > 0 && c.calls == c.failAt {
		return 0, c.failErr
	}
	c.n++
	return c.n, nil
}

func TestReader(t *testing.T) {
	buf := make([]byte, 4)
	n, err := io.ReadFull(NewReader(&countingGenerator{}), buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadFull: n=%d err=%v", n, err)
	}
	for i, b := range buf {
		if b != byte(i+1) {
			t.Errorf("byte %d: expected %d, got %d", i, i+1, b)
		}
	}

	errSensor := errors.New("sensor gone")
	n, err = NewReader(&countingGenerator{failAt: 3, failErr: errSensor}).Read(buf)
	if n != 2 || !errors.Is(err, errSensor) {
		t.Errorf("Expected 2 bytes and sensor error, got %d, %v", n, err)
	}
}
