package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/experiment"
)

const script = `
name: warmup
description: two short runs
steps:
  - name: rest
    scenario: spring
    preset: rest
    duration: 0.1
  - name: stiff speed loop
    scenario: pid_speed
    duration: 0.5
    params:
      controller.kp: 20
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScript(t *testing.T) {
	s, err := LoadScript(writeScript(t, script))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "warmup" || len(s.Steps) != 2 {
		t.Fatalf("unexpected script %+v", s)
	}

	results, err := RunScript(context.Background(), s, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Result.Steps != 10 {
		t.Errorf("rest step ran %d steps, want 10", results[0].Result.Steps)
	}
	if results[1].Config.Controller.Kp != 20 || results[1].Result.Steps != 50 {
		t.Errorf("second step kp %f, steps %d", results[1].Config.Controller.Kp, results[1].Result.Steps)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadScript(writeScript(t, "name: empty\n")); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := LoadScript(writeScript(t, "steps: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestRunScriptStopsAtFailure(t *testing.T) {
	s := &Script{Steps: []ScriptStep{
		{Scenario: "spring", Preset: "rest", Duration: 0.1},
		{Scenario: "spring", Preset: "nope"},
	}}
	results, err := RunScript(context.Background(), s, experiment.NewRegistry())
	if !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d completed steps, want 1", len(results))
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("pid_speed", "default")
	base.Duration = 1
	mc := &MonteCarloConfig{
		Base:         base,
		Params:       []string{"controller.kp", "controller.ki"},
		Perturbation: 1,
		NumTrials:    6,
		Seed:         7,
		Limit:        2,
	}
	r := experiment.NewRegistry()

	results, err := RunMonteCarlo(context.Background(), mc, r)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 6 {
		t.Fatalf("got %d trials", len(results))
	}
	stable, unstable := MonteCarloStats(results)
	if stable != 6 || unstable != 0 {
		t.Errorf("stable %d, unstable %d", stable, unstable)
	}
	for i, res := range results {
		if res.TrialID != i {
			t.Errorf("trial %d has id %d", i, res.TrialID)
		}
		if kp := res.Values["controller.kp"]; kp < 4 || kp > 6 {
			t.Errorf("kp %f outside the perturbation", kp)
		}
		if res.Result == nil || res.Result.Steps != 100 {
			t.Errorf("trial %d did not run to completion", i)
		}
	}

	again, err := RunMonteCarlo(context.Background(), mc, r)
	if err != nil {
		t.Fatal(err)
	}
	for i := range results {
		if again[i].Values["controller.kp"] != results[i].Values["controller.kp"] {
			t.Errorf("trial %d not reproducible from the seed", i)
		}
	}
}

func TestRunMonteCarloErrors(t *testing.T) {
	r := experiment.NewRegistry()
	base := config.DefaultConfig()

	if _, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: base, Params: []string{"spring.k"}}, r); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for no trials, got %v", err)
	}
	mc := &MonteCarloConfig{Base: base, Params: []string{"nope"}, NumTrials: 1, Seed: 1}
	if _, err := RunMonteCarlo(context.Background(), mc, r); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for unknown param, got %v", err)
	}
}
