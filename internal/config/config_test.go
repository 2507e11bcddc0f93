package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mechsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "bounce" {
		t.Errorf("expected scenario bounce, got %s", cfg.Scenario)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bounce", "lossy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Bounce.K != 0.9 {
		t.Errorf("expected bounce k 0.9, got %f", cfg.Bounce.K)
	}
	if cfg.Motor.R != 1 {
		t.Errorf("preset should keep defaults, motor.r = %f", cfg.Motor.R)
	}

	cfg.Bounce.K = 5
	if Presets["bounce"]["lossy"].Bounce.K != 0.9 {
		t.Error("GetPreset returned the shared preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("bounce", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "default"); cfg != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("pid_speed")
	want := []string{"default", "limited", "proportional"}
	if len(presets) != len(want) {
		t.Fatalf("presets: %v", presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("presets[%d] = %s, want %s", i, presets[i], want[i])
		}
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestEveryScenarioHasValidDefault(t *testing.T) {
	for scenario, presets := range Presets {
		if _, ok := presets["default"]; !ok {
			t.Errorf("%s has no default preset", scenario)
		}
		for name, cfg := range presets {
			if cfg.Scenario != scenario {
				t.Errorf("%s/%s names scenario %s", scenario, name, cfg.Scenario)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", scenario, name, err)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrInvalidStep},
		{"nan dt", func(c *Config) { c.Dt = math.NaN() }, dynamo.ErrInvalidStep},
		{"negative duration", func(c *Config) { c.Duration = -1 }, dynamo.ErrInvalidDuration},
		{"zero length", func(c *Config) { c.Initial.Length = 0 }, dynamo.ErrNonPositiveLength},
		{"zero resistance", func(c *Config) { c.Motor.R = 0 }, dynamo.ErrZeroResistance},
		{"zero inertia", func(c *Config) { c.Motor.J = 0 }, dynamo.ErrParameterBounds},
		{"negative spring", func(c *Config) { c.Spring.K = -1 }, dynamo.ErrParameterBounds},
		{"infinite gain", func(c *Config) { c.Controller.Kp = math.Inf(1) }, dynamo.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParam(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetParam("motor.voltage", 42); err != nil {
		t.Fatal(err)
	}
	if cfg.Motor.Voltage != 42 {
		t.Errorf("motor.voltage = %f", cfg.Motor.Voltage)
	}
	v, err := cfg.Param("motor.voltage")
	if err != nil || v != 42 {
		t.Errorf("Param = %f, %v", v, err)
	}

	if _, err := cfg.Param("nope"); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err := cfg.SetParam("nope", 1); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParamNamesSortedAndReadable(t *testing.T) {
	names := ParamNames()
	cfg := DefaultConfig()
	for i, name := range names {
		if i > 0 && names[i-1] >= name {
			t.Errorf("names not sorted at %s", name)
		}
		if _, err := cfg.Param(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("pid_speed", "default")
	cfg.Controller.Kp = 7
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n%+v\n%+v", loaded, cfg)
	}
}

func TestOverlayKeepsBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("dt: 0.002\ncontroller:\n  kp: 3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("pid_speed", "default")
	cfg, err := Overlay(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != 0.002 || cfg.Controller.Kp != 3 {
		t.Errorf("overlay not applied: dt=%f kp=%f", cfg.Dt, cfg.Controller.Kp)
	}
	if cfg.Controller.Ki != 10 || cfg.Scenario != "pid_speed" {
		t.Errorf("base values lost: ki=%f scenario=%s", cfg.Controller.Ki, cfg.Scenario)
	}
	if base.Dt != 0.01 {
		t.Error("overlay modified base")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dt: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
