package naming

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-test/deep"

	"megarng/rng"
)

func TestBuildBinCSVPaths(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	bin, csv, err := BuildBinCSVPaths("data", now, SourceMotion, 2048, 1)
	if err != nil {
		t.Fatalf("BuildBinCSVPaths failed: %v", err)
	}
	if want := filepath.Join("data", "20240309T140507_motion_s2048_i1.bin"); bin != want {
		t.Errorf("Expected %s, got %s", want, bin)
	}
	if want := filepath.Join("data", "20240309T140507_motion_s2048_i1.csv"); csv != want {
		t.Errorf("Expected %s, got %s", want, csv)
	}
}

func TestBuildBaseNameRejects(t *testing.T) {
	now := time.Now()
	if _, err := BuildBaseName(now, "trng", 8, 1); err == nil {
		t.Error("Expected error for unknown source")
	}
	if _, err := BuildBaseName(now, SourceAnalog, 0, 1); err == nil {
		t.Error("Expected error for zero bits")
	}
	if _, err := BuildBaseName(now, SourceAnalog, 8, 0); err == nil {
		t.Error("Expected error for zero interval")
	}
}

func TestWithExt(t *testing.T) {
	if got := WithExt("a", ".xlsx"); got != "a.xlsx" {
		t.Errorf("Expected a.xlsx, got %s", got)
	}
	if got := WithExt("a", ""); got != "a" {
		t.Errorf("Expected a, got %s", got)
	}
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath("/tmp/out/20240309T140507_analog_s512_i5.csv")
	if err != nil {
		t.Fatalf("ParsePath failed: %v", err)
	}
	if diff := deep.Equal(p, Params{Bits: 512, IntervalSeconds: 5}); diff != nil {
		t.Errorf("Params: %v", diff)
	}
	if _, err := ParsePath("random.bin"); err == nil {
		t.Error("Expected error for a name without settings")
	}
}

func TestSourceFor(t *testing.T) {
	if SourceFor(rng.ModeMotion) != SourceMotion || SourceFor(rng.ModeAnalog) != SourceAnalog {
		t.Error("SourceFor mapped a mode to the wrong source")
	}
}
