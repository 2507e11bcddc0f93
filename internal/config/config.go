package config

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/dynamo"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultGravity  = 9.8
	DefaultHeight   = 10.0
	DefaultLength   = 10.0
	DefaultSpringK  = 10.0
	DefaultSpringC  = 0.5
	DefaultBounceK  = 1.0
	DefaultVoltage  = 12.0
	DefaultKp       = 5.0
	DefaultKi       = 10.0
	DefaultKd       = 0.0
)

type Config struct {
	Scenario   string           `yaml:"scenario"`
	Dt         float64          `yaml:"dt"`
	Duration   float64          `yaml:"duration"`
	Gravity    float64          `yaml:"gravity"`
	Initial    InitialConfig    `yaml:"initial"`
	Spring     SpringConfig     `yaml:"spring"`
	Bounce     BounceConfig     `yaml:"bounce"`
	Motor      MotorConfig      `yaml:"motor"`
	Controller ControllerConfig `yaml:"controller"`
}

// InitialConfig holds the scenario geometry. Angle is measured from the
// hanging position for pendulums and from upright for the inverted one.
type InitialConfig struct {
	Height float64 `yaml:"height"`
	Angle  float64 `yaml:"angle"`
	Length float64 `yaml:"length"`
	Offset float64 `yaml:"offset"`
	Omega  float64 `yaml:"omega"`
	Speed  float64 `yaml:"speed"`
}

type SpringConfig struct {
	K float64 `yaml:"k"`
	C float64 `yaml:"c"`
}

type BounceConfig struct {
	K float64 `yaml:"k"`
}

type MotorConfig struct {
	R              float64 `yaml:"r"`
	L              float64 `yaml:"l"`
	Kc             float64 `yaml:"kc"`
	Ke             float64 `yaml:"ke"`
	J              float64 `yaml:"j"`
	F              float64 `yaml:"f"`
	Voltage        float64 `yaml:"voltage"`
	LoadInertia    float64 `yaml:"load_inertia"`
	ExternalTorque float64 `yaml:"external_torque"`
	Viscosity      float64 `yaml:"viscosity"`
}

type ControllerConfig struct {
	Kp            float64 `yaml:"kp"`
	Ki            float64 `yaml:"ki"`
	Kd            float64 `yaml:"kd"`
	Target        float64 `yaml:"target"`
	VoltageLimit  float64 `yaml:"voltage_limit"`
	IntegralLimit float64 `yaml:"integral_limit"`
	MaxForce      float64 `yaml:"max_force"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "bounce",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gravity:  DefaultGravity,
		Initial: InitialConfig{
			Height: DefaultHeight,
			Length: DefaultLength,
		},
		Spring: SpringConfig{K: DefaultSpringK, C: DefaultSpringC},
		Bounce: BounceConfig{K: DefaultBounceK},
		Motor: MotorConfig{
			R:       1,
			L:       0.001,
			Kc:      0.01,
			Ke:      0.01,
			J:       0.01,
			F:       0.1,
			Voltage: DefaultVoltage,
		},
		Controller: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	return Overlay(path, DefaultConfig())
}

// Overlay reads a YAML file on top of a copy of base. Keys missing from the
// file keep the base values.
func Overlay(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports the first value no scenario can be built from.
func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("dt %v: %w", c.Dt, dynamo.ErrInvalidStep)
	}
	if !(c.Duration >= 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("duration %v: %w", c.Duration, dynamo.ErrInvalidDuration)
	}
	for _, name := range ParamNames() {
		v, _ := c.Param(name)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite: %w", name, dynamo.ErrInvalidArgument)
		}
	}
	if c.Initial.Length <= 0 {
		return fmt.Errorf("initial.length %v: %w", c.Initial.Length, dynamo.ErrNonPositiveLength)
	}
	if c.Motor.R <= 0 {
		return fmt.Errorf("motor.r %v: %w", c.Motor.R, dynamo.ErrZeroResistance)
	}
	if c.Motor.J <= 0 {
		return fmt.Errorf("motor.j %v: %w", c.Motor.J, dynamo.ErrParameterBounds)
	}
	if c.Spring.K < 0 || c.Spring.C < 0 || c.Bounce.K < 0 {
		return fmt.Errorf("negative spring or bounce gain: %w", dynamo.ErrParameterBounds)
	}
	return nil
}

func (c *Config) params() map[string]*float64 {
	return map[string]*float64{
		"dt":                        &c.Dt,
		"duration":                  &c.Duration,
		"gravity":                   &c.Gravity,
		"initial.height":            &c.Initial.Height,
		"initial.angle":             &c.Initial.Angle,
		"initial.length":            &c.Initial.Length,
		"initial.offset":            &c.Initial.Offset,
		"initial.omega":             &c.Initial.Omega,
		"initial.speed":             &c.Initial.Speed,
		"spring.k":                  &c.Spring.K,
		"spring.c":                  &c.Spring.C,
		"bounce.k":                  &c.Bounce.K,
		"motor.r":                   &c.Motor.R,
		"motor.l":                   &c.Motor.L,
		"motor.kc":                  &c.Motor.Kc,
		"motor.ke":                  &c.Motor.Ke,
		"motor.j":                   &c.Motor.J,
		"motor.f":                   &c.Motor.F,
		"motor.voltage":             &c.Motor.Voltage,
		"motor.load_inertia":        &c.Motor.LoadInertia,
		"motor.external_torque":     &c.Motor.ExternalTorque,
		"motor.viscosity":           &c.Motor.Viscosity,
		"controller.kp":             &c.Controller.Kp,
		"controller.ki":             &c.Controller.Ki,
		"controller.kd":             &c.Controller.Kd,
		"controller.target":         &c.Controller.Target,
		"controller.voltage_limit":  &c.Controller.VoltageLimit,
		"controller.integral_limit": &c.Controller.IntegralLimit,
		"controller.max_force":      &c.Controller.MaxForce,
	}
}

// Param returns a numeric field by its dotted YAML name, e.g. "motor.voltage".
func (c *Config) Param(name string) (float64, error) {
	p, ok := c.params()[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidArgument)
	}
	return *p, nil
}

func (c *Config) SetParam(name string, value float64) error {
	p, ok := c.params()[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidArgument)
	}
	*p = value
	return nil
}

// ParamNames lists every name accepted by Param, sorted.
func ParamNames() []string {
	var c Config
	names := make([]string, 0, 32)
	for name := range c.params() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
