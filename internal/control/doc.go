// Package control provides the PID law and the motor controllers built on it.
//
//   - [Law]: a discrete PID with optional integral clamp and output saturation
//   - [Speed]: drives a motor's speed to a target by setting its voltage
//   - [Position]: drives a motor's integrated shaft position to a target
//
// # Usage
//
//	m, _ := motor.New(motor.DefaultSpec())
//	c := control.NewSpeed(m, 100, 0, 0, control.WithVoltageLimit(12))
//	c.SetTarget(1)
//	for i := 0; i < 200; i++ {
//	    c.Step(0.01) // also integrates the motor
//	}
//
// Controllers implement [dynamo.Driver] so a universe can step them, and
// [dynamo.Configurable] for tuning.
package control
