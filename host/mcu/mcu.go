package mcu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"megarng/host/logger"
	"megarng/host/serial"
	"megarng/protocol"
	"megarng/rng"
)

// MCU represents a connection to a board running the megarng firmware
type MCU struct {
	port   io.ReadCloser
	frames *protocol.FrameReader

	// serial reads time out with io.EOF; keep waiting instead of giving up
	idleEOF bool

	identify *protocol.Identify
	stats    Stats
	nextSeq  uint32
	seqValid bool
}

// Stats counts what the session has received.
type Stats struct {
	Frames      protocol.FrameStats
	Blocks      int // random blocks received
	Missed      int // blocks skipped according to the block sequence
	Resets      int // identify messages seen after the first
	BadMessages int // valid frames that did not decode
}

// New wraps an already open stream. End of stream ends the session.
func New(r io.ReadCloser) *MCU {
	return &MCU{
		port:   r,
		frames: protocol.NewFrameReader(r),
	}
}

// Connect opens device with the firmware's default serial settings
func Connect(device string) (*MCU, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig connects to the board with a custom serial config
func ConnectWithConfig(cfg *serial.Config) (*MCU, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	// Opening the port resets the board; drop whatever the old run left behind
	time.Sleep(100 * time.Millisecond)
	if err := port.Flush(); err != nil {
		logger.Log().Debug().Err(err).Msg("flush failed")
	}

	m := New(port)
	m.idleEOF = true
	logger.Log().Info().Str("device", cfg.Device).Int("baud", cfg.Baud).Msg("connected")
	return m, nil
}

// Close closes the connection to the board
func (m *MCU) Close() error {
	if m.port == nil {
		return nil
	}
	return m.port.Close()
}

// ReadMessage returns the next decoded message, *protocol.Identify or
// *protocol.RandomBlock. Frames and payloads that fail to decode are counted
// and skipped.
func (m *MCU) ReadMessage(ctx context.Context) (interface{}, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := m.frames.ReadFrame()
		m.stats.Frames = m.frames.Stats()
		if errors.Is(err, io.EOF) && m.idleEOF {
			continue
		}
		if err != nil {
			return nil, err
		}

		msg, err := protocol.DecodeMessage(f.Payload)
		if err != nil {
			m.stats.BadMessages++
			logger.Log().Debug().Err(err).Uint8("seq", f.Seq).Msg("dropping frame")
			continue
		}
		m.track(msg)
		return msg, nil
	}
}

func (m *MCU) track(msg interface{}) {
	switch v := msg.(type) {
	case *protocol.Identify:
		if m.identify != nil {
			m.stats.Resets++
			logger.Log().Warn().Msg("board reset")
		}
		m.identify = v
		m.seqValid = false
		logger.Log().Info().Str("version", v.Version).Stringer("mode", rng.Mode(v.Mode)).Msg("identify")

	case *protocol.RandomBlock:
		m.stats.Blocks++
		switch {
		case !m.seqValid || v.Seq == m.nextSeq:
		case v.Seq < m.nextSeq:
			// counter went backwards: the board restarted and its identify was lost
			m.stats.Resets++
			logger.Log().Warn().Uint32("seq", v.Seq).Uint32("expected", m.nextSeq).Msg("board reset without identify")
		default:
			missed := int(v.Seq - m.nextSeq)
			m.stats.Missed += missed
			logger.Log().Warn().Uint32("seq", v.Seq).Int("missed", missed).Msg("block gap")
		}
		m.nextSeq = v.Seq + 1
		m.seqValid = true
	}
}

// Identify waits for the board's identify message, returning the cached one
// if it was already seen.
func (m *MCU) Identify(ctx context.Context) (*protocol.Identify, error) {
	for m.identify == nil {
		if _, err := m.ReadMessage(ctx); err != nil {
			return nil, err
		}
	}
	return m.identify, nil
}

// Mode returns the generator mode the board announced.
func (m *MCU) Mode() (rng.Mode, bool) {
	if m.identify == nil {
		return 0, false
	}
	return rng.Mode(m.identify.Mode), true
}

// Stats returns the running counters.
func (m *MCU) Stats() Stats {
	return m.stats
}

// Reader returns an io.Reader over the random bytes of incoming blocks.
// Reads block until data arrives or ctx is done.
func (m *MCU) Reader(ctx context.Context) io.Reader {
	return &blockReader{m: m, ctx: ctx}
}

type blockReader struct {
	m       *MCU
	ctx     context.Context
	pending []byte
}

func (r *blockReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		msg, err := r.m.ReadMessage(r.ctx)
		if err != nil {
			return 0, err
		}
		if b, ok := msg.(*protocol.RandomBlock); ok {
			r.pending = b.Data
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
