package config

import (
	"math"
	"sort"
)

func preset(scenario string, dt, duration float64, tweak func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	cfg.Dt = dt
	cfg.Duration = duration
	if tweak != nil {
		tweak(cfg)
	}
	return cfg
}

// Presets holds the named starting points of every scenario. Each scenario
// has a "default" entry.
var Presets = map[string]map[string]*Config{
	"bounce": {
		"default": preset("bounce", 0.01, 10, nil),
		"lossy": preset("bounce", 0.01, 10, func(c *Config) {
			c.Bounce.K = 0.9
		}),
		"throw": preset("bounce", 0.01, 10, func(c *Config) {
			c.Initial.Height = 5
			c.Initial.Speed = 3
		}),
	},
	"spring": {
		"default": preset("spring", 0.001, 10, func(c *Config) {
			c.Initial.Offset = 2
		}),
		"undamped": preset("spring", 0.001, 10, func(c *Config) {
			c.Initial.Offset = 2
			c.Spring.C = 0
		}),
		"rest": preset("spring", 0.01, 5, nil),
	},
	"pendulum": {
		"default": preset("pendulum", 0.0005, 10, func(c *Config) {
			c.Initial.Angle = 0.3
		}),
		"horizontal": preset("pendulum", 0.0005, 10, func(c *Config) {
			c.Initial.Angle = math.Pi / 2
		}),
		"spinning": preset("pendulum", 0.0005, 10, func(c *Config) {
			c.Initial.Angle = 0.1
			c.Initial.Omega = 4
		}),
	},
	"coupled_pendulums": {
		"default": preset("coupled_pendulums", 0.001, 30, func(c *Config) {
			c.Initial.Length = 20
			c.Spring.K = 5
			c.Spring.C = 0.1
		}),
		"stiff": preset("coupled_pendulums", 0.001, 30, func(c *Config) {
			c.Initial.Length = 20
			c.Spring.K = 50
			c.Spring.C = 0.1
		}),
	},
	"trampoline": {
		"default": preset("trampoline", 0.001, 10, func(c *Config) {
			c.Spring.K = 25
			c.Spring.C = 1
		}),
		"soft": preset("trampoline", 0.001, 10, func(c *Config) {
			c.Spring.K = 10
			c.Spring.C = 0.5
		}),
	},
	"motor_particle": {
		"default": preset("motor_particle", 0.001, 60, func(c *Config) {
			c.Motor.Voltage = 220
			c.Spring.K = 50
			c.Spring.C = 1
		}),
		"slow": preset("motor_particle", 0.001, 60, func(c *Config) {
			c.Motor.Voltage = 20
			c.Spring.K = 50
			c.Spring.C = 1
		}),
	},
	"pid_speed": {
		"default": preset("pid_speed", 0.01, 10, func(c *Config) {
			c.Controller = ControllerConfig{Kp: 5, Ki: 10, Target: 1}
			c.Motor.LoadInertia = 0.005
			c.Motor.ExternalTorque = 0.002
			c.Motor.Viscosity = 0.05
		}),
		"proportional": preset("pid_speed", 0.01, 10, func(c *Config) {
			c.Controller = ControllerConfig{Kp: 100, Target: 1}
			c.Motor.LoadInertia = 0.005
			c.Motor.ExternalTorque = 0.002
			c.Motor.Viscosity = 0.05
		}),
		"limited": preset("pid_speed", 0.01, 10, func(c *Config) {
			c.Controller = ControllerConfig{Kp: 5, Ki: 10, Target: 1, VoltageLimit: 12}
		}),
	},
	"pid_position": {
		"default": preset("pid_position", 0.01, 10, func(c *Config) {
			c.Controller = ControllerConfig{Kp: 50, Kd: 1, Target: 1}
		}),
		"integral": preset("pid_position", 0.01, 10, func(c *Config) {
			c.Controller = ControllerConfig{Kp: 50, Ki: 5, Kd: 1, Target: 1, IntegralLimit: 1}
		}),
	},
	"inverted_pendulum": {
		"default": preset("inverted_pendulum", 0.001, 10, func(c *Config) {
			c.Initial.Angle = 0.05
			c.Controller = ControllerConfig{Kp: 100, Kd: 100, MaxForce: 500}
		}),
		"unstabilized": preset("inverted_pendulum", 0.001, 5, func(c *Config) {
			c.Initial.Angle = 0.05
			c.Controller = ControllerConfig{}
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, name string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
