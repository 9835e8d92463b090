// Package dsp provides the time-domain conditioning applied to fetched
// waveforms before tensor assembly: a Butterworth low-pass to suppress
// energy above the target Nyquist, and rate conversion to the target
// sampling rate.
package dsp

import "math"

// butterworth4Q holds the biquad Q factors of a 4th-order Butterworth
// low-pass realized as a cascade of two second-order sections.
var butterworth4Q = [2]float64{0.5411961, 1.3065630}

// Lowpass applies a causal 4th-order Butterworth low-pass at cutoff Hz.
// Returns a new slice; the input is not modified. A cutoff at or above the
// Nyquist frequency returns an unfiltered copy.
func Lowpass(x []float64, sampleRate, cutoff float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	if len(x) == 0 || cutoff <= 0 || cutoff >= sampleRate/2 {
		return out
	}

	for _, q := range butterworth4Q {
		applyBiquad(out, lowpassCoeffs(sampleRate, cutoff, q))
	}
	return out
}

// biquad holds normalized second-order section coefficients (a0 == 1).
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// lowpassCoeffs derives low-pass section coefficients via the bilinear
// transform (Audio EQ Cookbook form).
func lowpassCoeffs(sampleRate, cutoff, q float64) biquad {
	w0 := 2 * math.Pi * cutoff / sampleRate
	cosw0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	a0 := 1 + alpha
	return biquad{
		b0: (1 - cosw0) / 2 / a0,
		b1: (1 - cosw0) / a0,
		b2: (1 - cosw0) / 2 / a0,
		a1: -2 * cosw0 / a0,
		a2: (1 - alpha) / a0,
	}
}

// applyBiquad filters in place, direct form II transposed.
func applyBiquad(x []float64, c biquad) {
	var z1, z2 float64
	for i, v := range x {
		y := c.b0*v + z1
		z1 = c.b1*v - c.a1*y + z2
		z2 = c.b2*v - c.a2*y
		x[i] = y
	}
}

// Resample converts x from srcRate to dstRate by linear interpolation over
// the common time span. The caller is expected to low-pass first when
// decimating. Output length is round(n * dstRate / srcRate).
func Resample(x []float64, srcRate, dstRate float64) []float64 {
	if len(x) == 0 || srcRate == dstRate {
		out := make([]float64, len(x))
		copy(out, x)
		return out
	}

	n := int(math.Round(float64(len(x)) * dstRate / srcRate))
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	ratio := srcRate / dstRate
	for i := range out {
		pos := float64(i) * ratio
		lo := int(pos)
		if lo >= len(x)-1 {
			out[i] = x[len(x)-1]
			continue
		}
		frac := pos - float64(lo)
		out[i] = x[lo] + frac*(x[lo+1]-x[lo])
	}
	return out
}
