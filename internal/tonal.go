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
	"math"
)

// Percentile-based histogram stretch. Per channel, independently computes
// the values at the low and high percentiles (in [0,100]) and linearly
// remaps them to [0,1], clamping outside the range. A channel whose
// percentile anchors coincide is flat and is left untouched, avoiding a
// division by zero. Returns a new buffer.
func HistogramStretch(b *PixelBuffer, lowPerc, highPerc float32) *PixelBuffer {
	res:=b.Clone()
	for c:=int32(0); c<b.Channels; c++ {
		plane:=res.Plane(c)
		low, high:=CalcPercentiles(plane, lowPerc, highPerc)
		if high<=low { continue }  // degenerate flat channel, no-op

		scale:=1/(high-low)
		for i, d:=range plane {
			plane[i]=clampUnit((d-low)*scale)
		}
	}
	return res
}

// Apply output = input^gamma per channel. Gamma below 1 brightens
// midtones. Samples are clamped to [0,1] first so the power is defined.
// Returns a new buffer.
func GammaCurve(b *PixelBuffer, gamma float32) *PixelBuffer {
	res:=b.Clone()
	g:=float64(gamma)
	data:=res.Data
	for i, d:=range data {
		data[i]=float32(math.Pow(float64(clampUnit(d)), g))
	}
	return res
}

// Contrast-limited adaptive histogram equalization on the luminance
// channel. The buffer is partitioned into a tileGrid x tileGrid grid, each
// tile's luminance histogram is equalized with the per-bin count clipped
// at clipLimit times the uniform level, and per-pixel mappings are
// bilinearly blended between neighboring tiles to avoid blocking.
// Strength in [0,1] blends the equalized result with the input; 0 returns
// an unmodified copy. Flat tiles keep an identity mapping, so zero
// variance never causes a division by zero. Returns a new clamped buffer.
func AdaptiveContrast(b *PixelBuffer, clipLimit float32, tileGrid int32, strength float32) *PixelBuffer {
	if strength<=0 || tileGrid<1 { return b.Clone() }

	lum:=b.Luminance()
	w, h:=b.Width, b.Height

	tilesX, tilesY:=tileGrid, tileGrid
	if tilesX>w { tilesX=w }
	if tilesY>h { tilesY=h }
	tileW:=(w+tilesX-1)/tilesX
	tileH:=(h+tilesY-1)/tilesY

	// per-tile clipped equalization mappings over 256 luminance bins
	const bins=256
	mappings:=make([][bins]float32, tilesX*tilesY)
	for ty:=int32(0); ty<tilesY; ty++ {
		for tx:=int32(0); tx<tilesX; tx++ {
			x0, y0:=tx*tileW, ty*tileH
			x1, y1:=x0+tileW, y0+tileH
			if x1>w { x1=w }
			if y1>h { y1=h }

			var hist [bins]int32
			count:=int32(0)
			minV, maxV:=float32(1), float32(0)
			for y:=y0; y<y1; y++ {
				row:=lum[y*w:]
				for x:=x0; x<x1; x++ {
					v:=clampUnit(row[x])
					if v<minV { minV=v }
					if v>maxV { maxV=v }
					hist[binIndex(v)]++
					count++
				}
			}

			m:=&mappings[ty*tilesX+tx]
			if count==0 || maxV<=minV {
				// flat tile: identity mapping
				for i:=0; i<bins; i++ {
					m[i]=float32(i)/float32(bins-1)
				}
				continue
			}

			// clip histogram and redistribute the excess uniformly
			limit:=int32(clipLimit*float32(count)/bins)
			if limit<1 { limit=1 }
			excess:=int32(0)
			for i:=0; i<bins; i++ {
				if hist[i]>limit {
					excess+=hist[i]-limit
					hist[i]=limit
				}
			}
			share:=float64(excess)/bins

			// cumulative distribution as output mapping; redistributing
			// the whole excess keeps the total mass at count
			cdf:=float64(0)
			for i:=0; i<bins; i++ {
				cdf+=float64(hist[i])+share
				m[i]=float32(cdf/float64(count))
			}
		}
	}

	// bilinear blend between the mappings of the four surrounding tiles
	res:=b.Clone()
	l:=b.Pixels()
	newLum:=make([]float32, l)
	for y:=int32(0); y<h; y++ {
		fy:=(float32(y)+0.5)/float32(tileH) - 0.5
		ty0:=int32(math.Floor(float64(fy)))
		wy:=fy-float32(ty0)
		ty1:=ty0+1
		if ty0<0 { ty0=0 }
		if ty1<0 { ty1=0 }
		if ty0>=tilesY { ty0=tilesY-1 }
		if ty1>=tilesY { ty1=tilesY-1 }

		for x:=int32(0); x<w; x++ {
			fx:=(float32(x)+0.5)/float32(tileW) - 0.5
			tx0:=int32(math.Floor(float64(fx)))
			wx:=fx-float32(tx0)
			tx1:=tx0+1
			if tx0<0 { tx0=0 }
			if tx1<0 { tx1=0 }
			if tx0>=tilesX { tx0=tilesX-1 }
			if tx1>=tilesX { tx1=tilesX-1 }

			bin:=binIndex(clampUnit(lum[y*w+x]))
			v00:=mappings[ty0*tilesX+tx0][bin]
			v01:=mappings[ty0*tilesX+tx1][bin]
			v10:=mappings[ty1*tilesX+tx0][bin]
			v11:=mappings[ty1*tilesX+tx1][bin]
			top:=v00+(v01-v00)*wx
			bot:=v10+(v11-v10)*wx
			newLum[y*w+x]=top+(bot-top)*wy
		}
	}

	// scale channels by the luminance ratio, then blend by strength
	applyLuminanceRatio(res, lum, newLum, strength)
	return res
}

// Rescale all channels of res by newLum/oldLum, blended with the original
// by strength, clamping to [0,1]. Dark pixels below epsilon keep their
// value to avoid amplifying noise through a near-zero division.
func applyLuminanceRatio(res *PixelBuffer, oldLum, newLum []float32, strength float32) {
	const eps=1e-5
	l:=res.Pixels()
	for c:=int32(0); c<res.Channels; c++ {
		plane:=res.Plane(c)
		for i:=int32(0); i<l; i++ {
			if oldLum[i]<eps { continue }
			ratio:=newLum[i]/oldLum[i]
			enhanced:=plane[i]*ratio
			plane[i]=clampUnit(plane[i] + strength*(enhanced-plane[i]))
		}
	}
}

// Quantize a [0,1] sample into one of 256 bins
func binIndex(v float32) int32 {
	idx:=int32(v*255)
	if idx<0 { idx=0 }
	if idx>255 { idx=255 }
	return idx
}
