package control

import (
	"math"
	"testing"
)

func TestLawTerms(t *testing.T) {
	l := NewLaw(2, 1, 0.5)

	// integral = 0.1, derivative = (1 - 0)/0.1 = 10
	u := l.Update(1, 0.1)
	want := 2*1 + 1*0.1 + 0.5*10
	if math.Abs(u-want) > 1e-12 {
		t.Errorf("first update: got %v, want %v", u, want)
	}

	// error unchanged: derivative 0, integral 0.2
	u = l.Update(1, 0.1)
	want = 2 + 0.2
	if math.Abs(u-want) > 1e-12 {
		t.Errorf("second update: got %v, want %v", u, want)
	}
}

func TestLawZeroDt(t *testing.T) {
	l := NewLaw(1, 1, 100)
	u := l.Update(3, 0)
	if u != 3 {
		t.Errorf("dt=0 should give a pure proportional output, got %v", u)
	}
	if math.IsNaN(u) || math.IsInf(u, 0) {
		t.Errorf("dt=0 produced a non-finite output")
	}
}

func TestLawLimits(t *testing.T) {
	tests := []struct {
		name         string
		opts         []Option
		wantIntegral float64
		wantOutput   float64
	}{
		{"unclamped", nil, 10, 10 + 10},
		{"integral clamp", []Option{WithIntegralLimit(1)}, 1, 10 + 1},
		{"output clamp", []Option{WithOutputLimit(12)}, 10, 12},
		{"both", []Option{WithIntegralLimit(-1), WithVoltageLimit(5)}, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLaw(1, 1, 0, tt.opts...)
			var u float64
			for i := 0; i < 10; i++ {
				u = l.Update(10, 0.1)
			}
			if math.Abs(l.Integral()-tt.wantIntegral) > 1e-9 {
				t.Errorf("integral: got %v, want %v", l.Integral(), tt.wantIntegral)
			}
			if math.Abs(u-tt.wantOutput) > 1e-9 {
				t.Errorf("output: got %v, want %v", u, tt.wantOutput)
			}
		})
	}
}

func TestUpdateRate(t *testing.T) {
	l := NewLaw(1, 0, 2)
	if u := l.UpdateRate(1, -3, 0.01); math.Abs(u-(1-6+0)) > 1e-12 {
		t.Errorf("got %v", u)
	}
}

func TestLawResetAndParams(t *testing.T) {
	l := NewLaw(1, 1, 1)
	l.Update(5, 0.1)
	l.Reset()
	if l.Integral() != 0 {
		t.Errorf("reset did not clear integral")
	}
	l.SetParam("Kd", 7)
	if l.GetParams()["Kd"] != 7 {
		t.Errorf("SetParam Kd not applied")
	}
}
