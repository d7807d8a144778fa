package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-test/deep"
)

func mustFrame(t *testing.T, seq uint8, payload []byte) []byte {
	t.Helper()
	f, err := EncodeFrame(seq, payload)
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}
	return f
}

func TestEncodeFrameLayout(t *testing.T) {
	f := mustFrame(t, 0x13, []byte{0xAA, 0xBB})

	if len(f) != 7 || f[FramePosLen] != 7 {
		t.Fatalf("Expected a 7-byte frame, got %v", f)
	}
	if f[FramePosSeq] != SeqDest|0x03 {
		t.Errorf("Expected seq 0x13, got 0x%02X", f[FramePosSeq])
	}
	crc := CRC16(f[:4])
	if f[4] != byte(crc>>8) || f[5] != byte(crc) || f[6] != SyncByte {
		t.Errorf("Bad trailer %v", f[4:])
	}

	if _, err := EncodeFrame(0, make([]byte, PayloadMax+1)); err != ErrPayloadTooLarge {
		t.Errorf("Expected ErrPayloadTooLarge, got %v", err)
	}
	if f, err := EncodeFrame(0, make([]byte, PayloadMax)); err != nil || len(f) != FrameMax {
		t.Errorf("Expected a %d-byte frame, got %d (%v)", FrameMax, len(f), err)
	}
}

func TestFrameReaderStream(t *testing.T) {
	var stream []byte
	for i := 0; i < 3; i++ {
		stream = append(stream, mustFrame(t, uint8(i), []byte{byte(i), byte(i * 2)})...)
	}

	r := NewFrameReader(bytes.NewReader(stream))
	for i := 0; i < 3; i++ {
		f, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("Frame %d: %v", i, err)
		}
		expected := Frame{Seq: uint8(i), Payload: []byte{byte(i), byte(i * 2)}}
		if diff := deep.Equal(f, expected); diff != nil {
			t.Errorf("Frame %d: %v", i, diff)
		}
	}
	if _, err := r.ReadFrame(); err != io.EOF {
		t.Errorf("Expected EOF, got %v", err)
	}
	if r.Stats().Frames != 3 {
		t.Errorf("Expected 3 frames, got %+v", r.Stats())
	}
}

func TestFrameReaderResync(t *testing.T) {
	good := mustFrame(t, 1, []byte{0x42})
	corrupt := mustFrame(t, 2, []byte{0x43})
	corrupt[2] ^= 0xFF

	var stream []byte
	stream = append(stream, 0x01, 0x02, SyncByte) // line noise then sync
	stream = append(stream, corrupt...)           // CRC failure, trailer intact
	stream = append(stream, 0x07, 0x55)           // bad seq byte
	stream = append(stream, 0x99, SyncByte)       // noise until next sync
	stream = append(stream, good...)

	r := NewFrameReader(bytes.NewReader(stream))
	f, err := r.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if diff := deep.Equal(f.Payload, []byte{0x42}); diff != nil {
		t.Errorf("Payload: %v", diff)
	}

	expected := FrameStats{Frames: 1, BadCRC: 1, BadLength: 2, Discarded: 2 + len(corrupt) + 2 + 1}
	if diff := deep.Equal(r.Stats(), expected); diff != nil {
		t.Errorf("Stats: %v", diff)
	}
}
