package audio

import "math"

// Hook is a sample-domain post-processing step applied to generated audio
// before encoding.
type Hook func(samples []float32) []float32

// ApplyHooks runs hooks over samples in order.
func ApplyHooks(samples []float32, hooks ...Hook) []float32 {
	out := samples
	for _, hook := range hooks {
		out = hook(out)
	}

	return out
}

// PeakNormalize scales samples in place so the peak amplitude reaches 1.0.
// Silence is returned unchanged.
func PeakNormalize(samples []float32) []float32 {
	var peak float32
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}

	if peak == 0 {
		return samples
	}

	gain := 1.0 / peak
	for i := range samples {
		samples[i] *= gain
	}

	return samples
}

// DCBlock removes DC offset from samples in place using a one-pole high-pass
// filter with a ~20 Hz cutoff.
func DCBlock(samples []float32, sampleRate int) []float32 {
	if sampleRate < 1 || len(samples) == 0 {
		return samples
	}

	r := float32(1.0 - (2*math.Pi*20.0)/float64(sampleRate))

	var prevIn, prevOut float32
	for i, s := range samples {
		out := s - prevIn + r*prevOut
		prevIn = s
		prevOut = out
		samples[i] = out
	}

	return samples
}

// FadeIn applies a linear fade-in ramp in place over the given duration in
// milliseconds.
func FadeIn(samples []float32, sampleRate int, ms float64) []float32 {
	n := int(ms / 1000.0 * float64(sampleRate))
	if n > len(samples) {
		n = len(samples)
	}

	for i := 0; i < n; i++ {
		samples[i] *= float32(i) / float32(n)
	}

	return samples
}

// FadeOut applies a linear fade-out ramp in place over the given duration in
// milliseconds.
func FadeOut(samples []float32, sampleRate int, ms float64) []float32 {
	n := int(ms / 1000.0 * float64(sampleRate))
	if n > len(samples) {
		n = len(samples)
	}

	for i := 0; i < n; i++ {
		idx := len(samples) - n + i
		samples[idx] *= float32(n-1-i) / float32(n)
	}

	return samples
}
