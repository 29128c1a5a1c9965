package analyzer

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// maxWindowSize caps the analysis window so very long material keeps a
// bounded transform cost. 64k samples is ~1.5 s at 44.1 kHz with a bin
// width under 1 Hz.
const maxWindowSize = 65536

// Frequency band edges in Hz. The 5-band split follows the usual mixing
// vocabulary; the 3-band split merges everything between 250 Hz and 4 kHz
// into a single mid band.
var (
	bands5 = []bandRange{
		{"bass", 20, 250},
		{"low_mid", 250, 500},
		{"mid", 500, 2000},
		{"high_mid", 2000, 4000},
		{"high", 4000, 20000},
	}
	bands3 = []bandRange{
		{"bass", 20, 250},
		{"mid", 250, 4000},
		{"high", 4000, 20000},
	}
)

type bandRange struct {
	name string
	low  float64
	high float64
}

// spectrumResult holds the frequency-domain measurements for one window.
type spectrumResult struct {
	dominantHz float64
	bandEnergy map[string]float64
}

// analyzeSpectrum computes a magnitude spectrum over a centered window of
// the signal and aggregates squared magnitude into the requested bands.
func analyzeSpectrum(samples []float64, sampleRate int, bands []bandRange) *spectrumResult {
	window := extractWindow(samples)
	windowed := applyHammingWindow(window)

	// Zero-pad to a power of two for the transform.
	n := nearestPowerOf2(len(windowed))
	if n > len(windowed) {
		padded := make([]float64, n)
		copy(padded, windowed)
		windowed = padded
	}

	spectrum := fft.FFTReal(windowed)

	half := len(spectrum) / 2
	magnitude := make([]float64, half)
	for i := 0; i < half; i++ {
		magnitude[i] = cmplx.Abs(spectrum[i])
	}

	freqResolution := float64(sampleRate) / float64(len(windowed))

	return &spectrumResult{
		dominantHz: dominantFrequency(magnitude, freqResolution),
		bandEnergy: bandEnergies(magnitude, freqResolution, bands),
	}
}

// extractWindow takes up to maxWindowSize samples from the middle of the
// signal, skipping lead-in and fade-out regions on long material.
func extractWindow(samples []float64) []float64 {
	if len(samples) <= maxWindowSize {
		return samples
	}

	start := len(samples) / 4
	end := start + maxWindowSize
	if end > len(samples) {
		end = len(samples)
		start = end - maxWindowSize
	}
	return samples[start:end]
}

// applyHammingWindow tapers the window edges to reduce spectral leakage.
func applyHammingWindow(samples []float64) []float64 {
	n := len(samples)
	windowed := make([]float64, n)
	if n == 1 {
		windowed[0] = samples[0]
		return windowed
	}
	for i, sample := range samples {
		w := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		windowed[i] = sample * w
	}
	return windowed
}

// dominantFrequency returns the center frequency of the strongest bin,
// excluding DC.
func dominantFrequency(magnitude []float64, freqResolution float64) float64 {
	peakIdx := 0
	peakMag := 0.0
	for i := 1; i < len(magnitude); i++ {
		if magnitude[i] > peakMag {
			peakMag = magnitude[i]
			peakIdx = i
		}
	}
	if peakIdx == 0 {
		return 0
	}
	return float64(peakIdx) * freqResolution
}

// bandEnergies integrates squared magnitude over each band range and
// normalizes by the total across all bands, so the ratios sum to 1 when
// any in-band energy exists.
func bandEnergies(magnitude []float64, freqResolution float64, bands []bandRange) map[string]float64 {
	energy := make(map[string]float64, len(bands))
	total := 0.0

	for _, band := range bands {
		sum := 0.0
		for i := 1; i < len(magnitude); i++ {
			freq := float64(i) * freqResolution
			if freq >= band.low && freq < band.high {
				sum += magnitude[i] * magnitude[i]
			}
		}
		energy[band.name] = sum
		total += sum
	}

	if total > 0 {
		for name := range energy {
			energy[name] /= total
		}
	}

	return energy
}

// nearestPowerOf2 returns the smallest power of two >= n.
func nearestPowerOf2(n int) int {
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
