package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is the one-sided amplitude spectrum of a sampled series.
type Spectrum struct {
	Freqs []float64
	Amps  []float64
}

// PowerSpectrum transforms a series sampled at fixed dt. The input is
// truncated to the largest power of two and the mean is removed so the
// DC bin does not swamp everything else.
func PowerSpectrum(series []float64, dt float64) *Spectrum {
	n := 1
	for n*2 <= len(series) {
		n *= 2
	}
	if n < 2 || dt <= 0 {
		return &Spectrum{}
	}

	mean := 0.0
	for _, v := range series[:n] {
		mean += v
	}
	mean /= float64(n)

	data := make([]float64, n)
	for i, v := range series[:n] {
		data[i] = v - mean
	}

	coeffs := fft.FFTReal(data)

	half := n / 2
	s := &Spectrum{
		Freqs: make([]float64, half),
		Amps:  make([]float64, half),
	}
	norm := 2.0 / float64(n)
	for i := 0; i < half; i++ {
		s.Freqs[i] = float64(i) / (float64(n) * dt)
		s.Amps[i] = cmplx.Abs(coeffs[i]) * norm
	}
	return s
}

// Dominant returns the strongest frequency, skipping the DC bin.
func (s *Spectrum) Dominant() (freq, amp float64) {
	for i := 1; i < len(s.Amps); i++ {
		if s.Amps[i] > amp {
			amp = s.Amps[i]
			freq = s.Freqs[i]
		}
	}
	return freq, amp
}
