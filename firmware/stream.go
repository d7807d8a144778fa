// Package firmware runs the board side of megarng: generate a block, frame
// it, write it out, repeat. It has no hardware dependencies of its own so the
// loop can run against the simulated bus.
package firmware

import (
	"io"

	"megarng/core"
	"megarng/protocol"
	"megarng/rng"
)

// Streamer turns generator output into MsgRandomBlock frames.
type Streamer struct {
	mode   rng.Mode
	reader *rng.Reader
	out    io.Writer
	led    core.Pin

	frameSeq uint8
	blockSeq uint32
	block    []byte
	frame    []byte
}

// NewStreamer writes blocks of blockSize bytes (clamped to protocol.BlockMax)
// to out. led is driven high while a block is being generated; pass the zero
// Pin to run without one.
func NewStreamer(gen rng.Generator, mode rng.Mode, out io.Writer, led core.Pin, blockSize int) *Streamer {
	if blockSize <= 0 || blockSize > protocol.BlockMax {
		blockSize = protocol.BlockMax
	}
	return &Streamer{
		mode:   mode,
		reader: rng.NewReader(gen),
		out:    out,
		led:    led,
		block:  make([]byte, blockSize),
		frame:  make([]byte, 0, protocol.FrameMax),
	}
}

// Identify announces the firmware version and mode.
func (s *Streamer) Identify() error {
	payload := protocol.AppendIdentify(s.frame[:0], protocol.Identify{
		Version: protocol.Version,
		Mode:    uint8(s.mode),
	})
	return s.send(payload)
}

// Step generates one block and writes it. A generator failure leaves the
// block unsent and is returned; the block counter still advances so the host
// sees the gap.
func (s *Streamer) Step() error {
	s.led.High()
	n, err := s.reader.Read(s.block)
	s.led.Low()

	seq := s.blockSeq
	s.blockSeq++
	if err != nil {
		core.DebugPrintln("[STREAM] block " + core.Utoa(seq) + " failed after " + core.Itoa(n) + " bytes")
		return err
	}

	payload := protocol.AppendRandomBlock(s.frame[:0], protocol.RandomBlock{
		Mode: uint8(s.mode),
		Seq:  seq,
		Data: s.block,
	})
	return s.send(payload)
}

// Blocks returns the number of blocks attempted.
func (s *Streamer) Blocks() uint32 {
	return s.blockSeq
}

func (s *Streamer) send(payload []byte) error {
	// payload aliases s.frame; frame it into a separate buffer
	var buf [protocol.FrameMax]byte
	frame, err := protocol.AppendFrame(buf[:0], s.frameSeq, payload)
	if err != nil {
		return err
	}
	if _, err := s.out.Write(frame); err != nil {
		return err
	}
	core.RecordEvent(core.EvtFrameSent, uint32(s.frameSeq), uint32(len(frame)))
	s.frameSeq = (s.frameSeq + 1) & protocol.SeqMask
	return nil
}
