// Package viz provides the terminal live view for mechsim scenarios.
//
// Entities draw themselves through the [dynamo.Canvas] hook; a [Viewport]
// maps those y-up pixels onto a braille [Canvas]. [Model] is a Bubble Tea
// program that steps the scenario universe every frame, and the picker
// started by [RunInteractive] chooses the scenario and preset first.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scenario from its configuration
//	P     - Arm the scenario's pulses
//	Tab   - Cycle the plotted probe
//	+/-   - Double/halve steps per frame
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
