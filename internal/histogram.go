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

// Number of bins per histogram channel
const HistBins = 256

// Per-channel intensity distributions of a buffer. Each channel slice has
// HistBins entries and sums to the pixel count of the buffer.
type HistogramResult struct {
	Red       []uint32 `json:"red"`
	Green     []uint32 `json:"green"`
	Blue      []uint32 `json:"blue"`
	Luminance []uint32 `json:"luminance"`
	Stats     *BasicStats `json:"stats"`
}

// Compute 256-bin histograms for the three color channels and the
// luminance channel. A single-channel buffer replicates its plane into
// all three color histograms.
func ComputeHistogram(b *PixelBuffer) (*HistogramResult, error) {
	if err:=b.Validate(); err!=nil { return nil, err }

	res:=&HistogramResult{
		Red      : make([]uint32, HistBins),
		Green    : make([]uint32, HistBins),
		Blue     : make([]uint32, HistBins),
		Luminance: make([]uint32, HistBins),
	}

	lum:=b.Luminance()
	for _, v:=range lum {
		res.Luminance[binIndex(v)]++
	}
	res.Stats=CalcBasicStats(lum)

	if b.Channels==1 {
		copy(res.Red,   res.Luminance)
		copy(res.Green, res.Luminance)
		copy(res.Blue,  res.Luminance)
		return res, nil
	}

	r, g, bl:=b.Plane(0), b.Plane(1), b.Plane(2)
	for i:=range r {
		res.Red  [binIndex(r [i])]++
		res.Green[binIndex(g [i])]++
		res.Blue [binIndex(bl[i])]++
	}
	return res, nil
}
