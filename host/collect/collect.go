// Package collect samples fixed-size batches of random bits from a stream
// and records them: raw bytes to a .bin file, one "time,ones" row per batch to
// a .csv file.
package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strconv"
	"time"

	"megarng/host/logger"
)

// TimeLayout is the timestamp format of the csv rows.
const TimeLayout = "2006-01-02 15:04:05"

// Collector reads Bits bits every Interval.
type Collector struct {
	Bits     int
	Interval time.Duration // zero collects back to back
	Samples  int           // stop after this many batches; zero runs until cancelled

	Bin io.Writer
	CSV io.Writer

	// Now stamps csv rows; defaults to time.Now
	Now func() time.Time

	// OnBatch, if set, is called after each batch is recorded
	OnBatch func(n int, ones int)
}

// Run collects from src until ctx is done, Samples batches are written or
// src fails. Cancellation is not an error.
func (c *Collector) Run(ctx context.Context, src io.Reader) error {
	if c.Bits <= 0 {
		return errors.New("bits must be > 0")
	}
	if c.Bin == nil || c.CSV == nil {
		return errors.New("collector needs both outputs")
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	var tick <-chan time.Time
	if c.Interval > 0 {
		ticker := time.NewTicker(c.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	buf := make([]byte, (c.Bits+7)/8)
	row := make([]byte, 0, 32)
	for n := 1; c.Samples == 0 || n <= c.Samples; n++ {
		if _, err := io.ReadFull(src, buf); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading batch %d: %w", n, err)
		}
		MaskTail(buf, c.Bits)

		if _, err := c.Bin.Write(buf); err != nil {
			return fmt.Errorf("write bin: %w", err)
		}
		ones := CountOnes(buf, c.Bits)
		row = now().AppendFormat(row[:0], TimeLayout)
		row = append(row, ',')
		row = strconv.AppendInt(row, int64(ones), 10)
		row = append(row, '\n')
		if _, err := c.CSV.Write(row); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}

		logger.Log().Debug().Int("sample", n).Int("ones", ones).Int("bits", c.Bits).Msg("batch")
		if c.OnBatch != nil {
			c.OnBatch(n, ones)
		}

		if tick == nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}
	}
	return nil
}

// MaskTail clears the bits of the last byte beyond bitCount. Bits are taken
// MSB first.
func MaskTail(buf []byte, bitCount int) {
	extra := (8 - bitCount%8) % 8
	if extra != 0 && len(buf) > 0 {
		buf[len(buf)-1] &= 0xFF << extra
	}
}

// CountOnes returns the number of set bits among the first bitCount bits of buf.
func CountOnes(buf []byte, bitCount int) int {
	if bitCount <= 0 || len(buf) == 0 {
		return 0
	}
	used := (bitCount + 7) / 8
	if used > len(buf) {
		used = len(buf)
		bitCount = used * 8
	}
	total := 0
	for _, b := range buf[:used-1] {
		total += bits.OnesCount8(b)
	}
	last := bitCount - (used-1)*8
	return total + bits.OnesCount8(buf[used-1]&(0xFF<<(8-last)))
}
