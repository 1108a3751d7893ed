// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"fmt"
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat/distuv"
)

// Histogram of error magnitudes quantized to a fixed resolution.
// Bin k holds samples in [k*Res, (k+1)*Res).
type Histogram struct {
	Res  float64     // Bin width [m]
	Bins map[int]int // Bin index -> sample count
	N    int         // Total number of samples
}

func NewHistogram(res float64) *Histogram {
	return &Histogram{Res: res, Bins: map[int]int{}}
}

// Bin index of a value (magnitude rounded down to the resolution).
// The relative tolerance keeps exact multiples of Res in their own bin
// despite the rounding of the division.
func (h *Histogram) Key(v float64) int {
	q := math.Abs(v) / h.Res
	return int(math.Floor(q * (1 + KEY_REL_TOL)))
}

// Add a sample. NaN samples are ignored.
func (h *Histogram) Add(v float64) {
	if math.IsNaN(v) {
		return
	}
	h.Bins[h.Key(v)]++
	h.N++
}

// Bin indices in ascending order
func (h *Histogram) Keys() []int {
	keys := maps.Keys(h.Bins)
	slices.Sort(keys)
	return keys
}

// One point of the cumulative distribution
type CdfPoint struct {
	Key   int     // Bin index
	Upper float64 // Upper edge of the bin [m]
	Count int     // Cumulative count up to and including the bin
	Cdf   float64 // Count / N
}

// Cumulative distribution over the sorted bins
func (h *Histogram) Cdf() []CdfPoint {
	pts := make([]CdfPoint, 0, len(h.Bins))
	cc := 0
	for _, k := range h.Keys() {
		cc += h.Bins[k]
		pts = append(pts, CdfPoint{
			Key:   k,
			Upper: float64(k+1) * h.Res,
			Count: cc,
			Cdf:   float64(cc) / float64(h.N),
		})
	}
	return pts
}

// Upper edge of the first bin where the CDF reaches p (0 < p <= 1)
func (h *Histogram) Percentile(p float64) (float64, error) {
	if h.N == 0 {
		return 0, fmt.Errorf("%w: empty histogram", ErrInsufficientData)
	}
	if p <= 0 || p > 1 {
		return 0, fmt.Errorf("invalid percentile: %f", p)
	}
	target := p*float64(h.N) - 1e-9
	cdf := h.Cdf()
	for _, pt := range cdf {
		if float64(pt.Count) >= target {
			return pt.Upper, nil
		}
	}
	return cdf[len(cdf)-1].Upper, nil
}

// Overbound returns the smallest zero-mean Gaussian sigma whose folded
// distribution bounds the tail of the histogram beyond threshold (CDF value).
// For each bin with threshold <= CDF < 1 the sigma matching P(|x| <= upper) = CDF is
//
//	sigma = upper / Qinv((1 + CDF) / 2)
//
// and the maximum over those bins is returned. 0 if no bin qualifies.
func (h *Histogram) Overbound(threshold float64) (float64, error) {
	if h.N == 0 {
		return 0, fmt.Errorf("%w: empty histogram", ErrInsufficientData)
	}
	sigma := 0.0
	for _, pt := range h.Cdf() {
		if pt.Cdf < threshold || pt.Count == h.N {
			continue
		}
		q := distuv.UnitNormal.Quantile((1 + pt.Cdf) / 2)
		if q <= 0 {
			continue
		}
		sigma = math.Max(sigma, pt.Upper/q)
	}
	return sigma, nil
}

// Histogram bin record for report writers
type HistBin struct {
	Id    int     // Bin number in ascending order, starting at 1
	Min   float64 // Lower edge [m]
	Max   float64 // Upper edge [m]
	Count int     // Number of samples
	Freq  float64 // Relative frequency
}

// Sorted bin records
func (h *Histogram) HistBins() []HistBin {
	bins := make([]HistBin, 0, len(h.Bins))
	for i, k := range h.Keys() {
		c := h.Bins[k]
		bins = append(bins, HistBin{
			Id:    i + 1,
			Min:   float64(k) * h.Res,
			Max:   float64(k+1) * h.Res,
			Count: c,
			Freq:  float64(c) / float64(h.N),
		})
	}
	return bins
}
