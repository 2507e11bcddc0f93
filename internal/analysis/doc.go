// Package analysis extracts characteristics from sampled trajectories.
//
//   - [PowerSpectrum], [DominantFrequency]: spectral content of a series
//   - [Crossings], [Period]: oscillation period from mean up-crossings
//   - [NewPhasePortrait]: two series plotted against each other as ASCII
//
// # Example
//
//	res, _ := u.Run(ctx, 10, probes...)
//	T, ok := analysis.Period(res.Series["angle"], res.Dt())
package analysis
