package protocol

import (
	"bufio"
	"errors"
	"io"
)

var ErrPayloadTooLarge = errors.New("payload exceeds frame size")

// Frame is one decoded frame.
type Frame struct {
	Seq     uint8
	Payload []byte
}

// AppendFrame appends a complete frame carrying payload to dst.
func AppendFrame(dst []byte, seq uint8, payload []byte) ([]byte, error) {
	if len(payload) > PayloadMax {
		return dst, ErrPayloadTooLarge
	}
	start := len(dst)
	dst = append(dst, byte(len(payload)+FrameMin), SeqDest|(seq&SeqMask))
	dst = append(dst, payload...)
	crc := CRC16(dst[start:])
	return append(dst, byte(crc>>8), byte(crc), SyncByte), nil
}

// EncodeFrame returns a new frame carrying payload.
func EncodeFrame(seq uint8, payload []byte) ([]byte, error) {
	return AppendFrame(make([]byte, 0, len(payload)+FrameMin), seq, payload)
}

// FrameStats counts what a FrameReader has seen.
type FrameStats struct {
	Frames    int // valid frames returned
	BadCRC    int // frames dropped for CRC or trailer mismatch
	BadLength int // headers dropped for an impossible length or seq byte
	Discarded int // bytes thrown away while resynchronising
}

// FrameReader extracts frames from a byte stream. Corrupt frames are counted
// and skipped; the reader resynchronises on the next sync byte.
type FrameReader struct {
	r      *bufio.Reader
	buf    []byte
	stats  FrameStats
	resync bool
}

// NewFrameReader wraps r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{
		r:   bufio.NewReaderSize(r, 4*FrameMax),
		buf: make([]byte, 0, FrameMax),
	}
}

// Stats returns the running counters.
func (f *FrameReader) Stats() FrameStats {
	return f.stats
}

// ReadFrame blocks until a valid frame arrives or the underlying reader fails.
func (f *FrameReader) ReadFrame() (Frame, error) {
	for {
		c, err := f.r.ReadByte()
		if err != nil {
			return Frame{}, err
		}

		if f.resync {
			if c == SyncByte {
				f.resync = false
			} else {
				f.stats.Discarded++
			}
			continue
		}

		if len(f.buf) == 0 {
			if c == SyncByte {
				continue
			}
			if c < FrameMin || c > FrameMax {
				f.drop(&f.stats.BadLength, 1)
				continue
			}
		}
		if len(f.buf) == FramePosSeq && c&^SeqMask != SeqDest {
			f.drop(&f.stats.BadLength, 1)
			continue
		}

		f.buf = append(f.buf, c)
		n := int(f.buf[FramePosLen])
		if len(f.buf) < n {
			continue
		}

		frame, ok := f.check(n)
		if !ok {
			// The sync byte closing a bad frame already marks the next boundary
			last := f.buf[n-1]
			f.drop(&f.stats.BadCRC, 0)
			f.resync = last != SyncByte
			continue
		}
		f.stats.Frames++
		f.buf = f.buf[:0]
		return frame, nil
	}
}

func (f *FrameReader) check(n int) (Frame, bool) {
	if f.buf[n-1] != SyncByte {
		return Frame{}, false
	}
	want := uint16(f.buf[n-FrameTrailerSize])<<8 | uint16(f.buf[n-FrameTrailerSize+1])
	if CRC16(f.buf[:n-FrameTrailerSize]) != want {
		return Frame{}, false
	}
	payload := make([]byte, n-FrameMin)
	copy(payload, f.buf[FrameHeaderSize:n-FrameTrailerSize])
	return Frame{
		Seq:     f.buf[FramePosSeq] & SeqMask,
		Payload: payload,
	}, true
}

// drop abandons the partial frame, bumps counter and enters resync.
// pending is the number of bytes read but never buffered.
func (f *FrameReader) drop(counter *int, pending int) {
	*counter++
	f.stats.Discarded += len(f.buf) + pending
	f.buf = f.buf[:0]
	f.resync = true
}
