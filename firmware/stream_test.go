package firmware

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/go-test/deep"

	"megarng/core"
	"megarng/protocol"
	"megarng/rng"
)

type seqGenerator struct {
	next uint8
	fail error
}

func (g *seqGenerator) Generate() (uint8, error) {
	if g.fail != nil {
		return 0, g.fail
	}
	g.next++
	return g.next, nil
}

func newLED(t *testing.T) (*core.SimBus, core.Pin) {
	t.Helper()
	bus := core.NewSimBus()
	port := core.NewRegistry(bus).MustAcquire(core.PortB)
	led, ok := port.Pin(7)
	if !ok {
		t.Fatalf("PB7 not available")
	}
	led.Output()
	bus.ResetLog()
	return bus, led
}

func readMessages(t *testing.T, stream []byte, n int) []interface{} {
	t.Helper()
	r := protocol.NewFrameReader(bytes.NewReader(stream))
	var out []interface{}
	for i := 0; i < n; i++ {
		f, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		msg, err := protocol.DecodeMessage(f.Payload)
		if err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		out = append(out, msg)
	}
	return out
}

func TestStreamerEmitsBlocks(t *testing.T) {
	bus, led := newLED(t)
	var out bytes.Buffer
	s := NewStreamer(&seqGenerator{}, rng.ModeMotion, &out, led, 4)

	if err := s.Identify(); err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}

	expected := []interface{}{
		&protocol.Identify{Version: protocol.Version, Mode: uint8(rng.ModeMotion)},
		&protocol.RandomBlock{Mode: uint8(rng.ModeMotion), Seq: 0, Data: []byte{1, 2, 3, 4}},
		&protocol.RandomBlock{Mode: uint8(rng.ModeMotion), Seq: 1, Data: []byte{5, 6, 7, 8}},
	}
	if diff := deep.Equal(readMessages(t, out.Bytes(), 3), expected); diff != nil {
		t.Errorf("messages: %v", diff)
	}

	// LED raised and lowered once per block
	toggles := 0
	for _, a := range bus.Accesses() {
		if a.Write && a.Addr == core.PortB.Address()+core.RegPIN {
			toggles++
		}
	}
	if toggles != 4 {
		t.Errorf("Expected 4 LED toggles, got %d", toggles)
	}
	if got := bus.Peek(core.PortB.Address() + core.RegPORT); got != 0 {
		t.Errorf("Expected LED low after streaming, got PORTB 0x%02X", got)
	}
}

func TestStreamerGeneratorFailure(t *testing.T) {
	errSensor := errors.New("sensor gone")
	var out bytes.Buffer
	s := NewStreamer(&seqGenerator{fail: errSensor}, rng.ModeMotion, &out, core.Pin{}, 0)

	if err := s.Step(); !errors.Is(err, errSensor) {
		t.Errorf("Expected sensor error, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected nothing written, got %d bytes", out.Len())
	}
	if s.Blocks() != 1 {
		t.Errorf("Expected block counter 1, got %d", s.Blocks())
	}
}

func TestStreamerLogsLargeBlockNumbers(t *testing.T) {
	var lines []string
	core.SetDebugWriter(func(s string) { lines = append(lines, s) })
	core.SetDebugEnabled(true)
	defer core.SetDebugEnabled(false)
	defer core.SetDebugWriter(func(string) {})

	s := NewStreamer(&seqGenerator{fail: errors.New("sensor gone")}, rng.ModeMotion, io.Discard, core.Pin{}, 1)
	s.blockSeq = 40000
	s.Step()

	if len(lines) != 1 || lines[0] != "[STREAM] block 40000 failed after 0 bytes" {
		t.Errorf("Unexpected debug output %q", lines)
	}
}

func TestStreamerFullBlocks(t *testing.T) {
	var out bytes.Buffer
	s := NewStreamer(&seqGenerator{}, rng.ModeAnalog, &out, core.Pin{}, 1000)
	if err := s.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	msgs := readMessages(t, out.Bytes(), 1)
	if n := len(msgs[0].(*protocol.RandomBlock).Data); n != protocol.BlockMax {
		t.Errorf("Expected %d-byte block, got %d", protocol.BlockMax, n)
	}
}
