// Package naming builds the file names collection sessions are stored under:
//
//	YYYYMMDDTHHMMSS_{source}_s{bits}_i{interval}.{bin,csv}
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"megarng/rng"
)

// Source names where the bits came from.
type Source string

const (
	SourceAnalog Source = "analog"
	SourceMotion Source = "motion"
)

// SourceFor maps a generator mode to its source name.
func SourceFor(m rng.Mode) Source {
	if m == rng.ModeMotion {
		return SourceMotion
	}
	return SourceAnalog
}

// Validate checks whether s is a known source.
func (s Source) Validate() error {
	if s == SourceAnalog || s == SourceMotion {
		return nil
	}
	return fmt.Errorf("invalid source: %q (allowed: analog, motion)", string(s))
}

// BuildBaseName builds the base file name for a session started at now.
func BuildBaseName(now time.Time, source Source, bits int, intervalSeconds int) (string, error) {
	if err := source.Validate(); err != nil {
		return "", err
	}
	if bits <= 0 {
		return "", errors.New("bits must be > 0")
	}
	if intervalSeconds <= 0 {
		return "", errors.New("intervalSeconds must be > 0")
	}
	stamp := now.Format("20060102T150405")
	return fmt.Sprintf("%s_%s_s%d_i%d", stamp, string(source), bits, intervalSeconds), nil
}

// WithExt appends ext to base. A leading dot on ext is optional.
func WithExt(base string, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}

// BuildBinCSVPaths builds the .bin and .csv paths inside dir (dir may be empty).
func BuildBinCSVPaths(dir string, now time.Time, source Source, bits int, intervalSeconds int) (binPath string, csvPath string, err error) {
	base, err := BuildBaseName(now, source, bits, intervalSeconds)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(dir, WithExt(base, "bin")), filepath.Join(dir, WithExt(base, "csv")), nil
}

var (
	bitsPattern     = regexp.MustCompile(`_s(\d+)_i`)
	intervalPattern = regexp.MustCompile(`_i(\d+)`)
)

// Params are the session settings encoded in a file name.
type Params struct {
	Bits            int
	IntervalSeconds int
}

// ParsePath recovers the bit count and interval from a session file path.
func ParsePath(path string) (Params, error) {
	name := filepath.Base(path)
	bits, err := findInt(bitsPattern, name)
	if err != nil {
		return Params{}, fmt.Errorf("bit count not found in file name %s", name)
	}
	interval, err := findInt(intervalPattern, name)
	if err != nil {
		return Params{}, fmt.Errorf("interval not found in file name %s", name)
	}
	return Params{Bits: bits, IntervalSeconds: interval}, nil
}

func findInt(re *regexp.Regexp, s string) (int, error) {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return 0, errors.New("no match")
	}
	return strconv.Atoi(m[1])
}
