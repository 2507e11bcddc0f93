package analysis

import (
	"math"
	"strings"
	"testing"
)

func sine(freq, dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2*math.Pi*freq*float64(i)*dt) + 3
	}
	return out
}

func TestFFTPadsToPowerOfTwo(t *testing.T) {
	if got := len(FFT(make([]float64, 5))); got != 8 {
		t.Errorf("expected padded length 8, got %d", got)
	}
	if got := len(FFT(nil)); got != 1 {
		t.Errorf("expected length 1 for empty input, got %d", got)
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	f, ok := DominantFrequency(sine(2, dt, 1024), dt)
	if !ok {
		t.Fatal("no frequency found")
	}
	// bin width is 1/(1024*0.01) ~ 0.1 Hz
	if math.Abs(f-2) > 0.1 {
		t.Errorf("expected ~2 Hz, got %.3f", f)
	}

	if _, ok := DominantFrequency([]float64{1, 1, 1, 1, 1}, dt); ok {
		t.Error("flat series should have no dominant frequency")
	}
}

func TestPeriod(t *testing.T) {
	dt := 0.001
	T, ok := Period(sine(0.5, dt, 7000), dt)
	if !ok {
		t.Fatal("no period found")
	}
	if math.Abs(T-2) > 1e-3 {
		t.Errorf("expected period 2, got %v", T)
	}

	if _, ok := Period([]float64{0, 1, 2, 3}, dt); ok {
		t.Error("monotonic series should have no period")
	}
}

func TestCrossingsInterpolate(t *testing.T) {
	got := Crossings([]float64{-1, 1, -1, 3}, 1, 0)
	want := []float64{0.5, 2.25}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("crossing %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestPeak(t *testing.T) {
	v, i := Peak([]float64{1, 5, 2})
	if v != 5 || i != 1 {
		t.Errorf("got %v at %d", v, i)
	}
	if _, i := Peak(nil); i != -1 {
		t.Errorf("empty peak index: %d", i)
	}
}

func TestPhasePortraitASCII(t *testing.T) {
	xs := []float64{-1, 0, 1, 0}
	ys := []float64{0, 1, 0, -1, 7}
	p := NewPhasePortrait("x", xs, "v", ys)
	if len(p.Points) != 4 {
		t.Fatalf("expected truncation to 4 points, got %d", len(p.Points))
	}

	out := p.ASCII(20, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "┼") {
		t.Errorf("missing points or axes:\n%s", out)
	}
	if (&PhasePortrait{}).ASCII(10, 10) != "" {
		t.Error("empty portrait should render nothing")
	}
}
