// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Basic location and scale statistics of a sample plane
type BasicStats struct {
	Min    float32
	Max    float32
	Mean   float32
	StdDev float32
}

func (s *BasicStats) String() string {
	return fmt.Sprintf("min %.4g max %.4g mean %.4g stdDev %.4g", s.Min, s.Max, s.Mean, s.StdDev)
}

// Calculate min, max, mean and standard deviation of given data
func CalcBasicStats(data []float32) *BasicStats {
	s:=&BasicStats{Min:float32(math.MaxFloat32), Max:float32(-math.MaxFloat32)}
	if len(data)==0 { return &BasicStats{} }

	sum:=float64(0)
	for _, d:=range data {
		if d<s.Min { s.Min=d }
		if d>s.Max { s.Max=d }
		sum+=float64(d)
	}
	s.Mean=float32(sum/float64(len(data)))

	sumSq:=float64(0)
	for _, d:=range data {
		diff:=float64(d-s.Mean)
		sumSq+=diff*diff
	}
	s.StdDev=float32(math.Sqrt(sumSq/float64(len(data))))
	return s
}

// Calculate the value at the given percentile (in [0,100]) of the data,
// using the empirical quantile of the sorted sample.
func CalcPercentile(data []float32, percentile float32) float32 {
	sorted:=make([]float64, len(data))
	for i, d:=range data {
		sorted[i]=float64(d)
	}
	sort.Float64s(sorted)
	return float32(stat.Quantile(float64(percentile)/100.0, stat.Empirical, sorted, nil))
}

// Calculate values at two percentiles (in [0,100]) with a single sort
func CalcPercentiles(data []float32, lowPerc, highPerc float32) (low, high float32) {
	sorted:=make([]float64, len(data))
	for i, d:=range data {
		sorted[i]=float64(d)
	}
	sort.Float64s(sorted)
	low =float32(stat.Quantile(float64(lowPerc )/100.0, stat.Empirical, sorted, nil))
	high=float32(stat.Quantile(float64(highPerc)/100.0, stat.Empirical, sorted, nil))
	return low, high
}

// Median of the given data. Sorts a copy, input is left untouched.
func CalcMedian(data []float32) float32 {
	sorted:=make([]float32, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i,j int) bool { return sorted[i]<sorted[j] })
	return sorted[len(sorted)/2]
}
