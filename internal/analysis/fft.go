package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform with a radix-2 recursion. The
// input is zero-padded to the next power of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	padded := make([]float64, n)
	copy(padded, data)
	return fft(padded)
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of the first half of the transform of
// the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	spectrum := FFT(removeMean(data))
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of samples taken every dt seconds. It reports false when the
// series is too short or flat.
func DominantFrequency(samples []float64, dt float64) (float64, bool) {
	if len(samples) < 4 || !(dt > 0) {
		return 0, false
	}
	ps := PowerSpectrum(samples)
	best, bestPower := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > bestPower {
			best, bestPower = i, ps[i]
		}
	}
	if best == 0 {
		return 0, false
	}
	n := nextPow2(len(samples))
	return float64(best) / (float64(n) * dt), true
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func removeMean(data []float64) []float64 {
	m := mean(data)
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - m
	}
	return out
}
