package analysis

// Crossings returns the interpolated times at which samples rise through
// level.
func Crossings(samples []float64, dt, level float64) []float64 {
	var times []float64
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if prev < level && curr >= level {
			frac := (level - prev) / (curr - prev)
			times = append(times, (float64(i-1)+frac)*dt)
		}
	}
	return times
}

// Period estimates the oscillation period as the mean interval between
// up-crossings of the series mean. It needs at least two crossings.
func Period(samples []float64, dt float64) (float64, bool) {
	times := Crossings(samples, dt, mean(samples))
	if len(times) < 2 {
		return 0, false
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1), true
}

// Peak returns the largest sample and its index, or -1 for an empty series.
func Peak(samples []float64) (float64, int) {
	if len(samples) == 0 {
		return 0, -1
	}
	best, idx := samples[0], 0
	for i, v := range samples {
		if v > best {
			best, idx = v, i
		}
	}
	return best, idx
}
