// Package analysis turns a Crucible run's telemetry history into
// plottable series and frequency-domain summaries, for the crucible CLI's
// bake, run and plot commands.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data via the classic
// recursive radix-2 Cooley-Tukey split. len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of each positive-frequency bin of
// data's FFT.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// nextPow2 rounds n up to the next power of two, padding a strain or
// speed history so it can feed FFT/PowerSpectrum directly.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// PadToPow2 returns data zero-padded up to the next power-of-two length,
// or data unchanged if it already is one.
func PadToPow2(data []float64) []float64 {
	target := nextPow2(len(data))
	if target == len(data) {
		return data
	}
	padded := make([]float64, target)
	copy(padded, data)
	return padded
}

// StrainSpectrum returns the power spectrum of a recorded max-strain
// history, useful for spotting an Actuator's drive frequency or an
// undamped resonance during Settling.
func StrainSpectrum(strainHistory []float64) []float64 {
	return PowerSpectrum(PadToPow2(strainHistory))
}
