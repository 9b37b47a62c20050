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
	"context"
	"fmt"
)

// Default bound on the longer preview edge
const DefaultPreviewSize = 512

// Downscale so the longer edge equals maxDim, preserving aspect ratio.
// Uses area averaging with fractional pixel coverage at box borders, which
// keeps total flux and avoids the aliasing of point sampling on star
// fields. Buffers at or below the bound are returned as a clone.
func Downsample(b *PixelBuffer, maxDim int32) (*PixelBuffer, error) {
	if err:=b.Validate(); err!=nil { return nil, err }
	if maxDim<1 { return nil, fmt.Errorf("%w: preview size %d", ErrInvalidParameter, maxDim) }
	if b.Width<=maxDim && b.Height<=maxDim { return b.Clone(), nil }

	var newW, newH int32
	if b.Width>=b.Height {
		newW=maxDim
		newH=int32(float64(b.Height)*float64(maxDim)/float64(b.Width) + 0.5)
	} else {
		newH=maxDim
		newW=int32(float64(b.Width)*float64(maxDim)/float64(b.Height) + 0.5)
	}
	if newW<1 { newW=1 }
	if newH<1 { newH=1 }

	res:=NewPixelBuffer(newW, newH, b.Channels)
	scaleX:=float64(b.Width )/float64(newW)
	scaleY:=float64(b.Height)/float64(newH)

	for c:=int32(0); c<b.Channels; c++ {
		src:=b.Plane(c)
		dst:=res.Plane(c)
		for y:=int32(0); y<newH; y++ {
			y0, y1:=float64(y)*scaleY, float64(y+1)*scaleY
			for x:=int32(0); x<newW; x++ {
				x0, x1:=float64(x)*scaleX, float64(x+1)*scaleX
				dst[y*newW+x]=boxAverage(src, b.Width, b.Height, x0, x1, y0, y1)
			}
		}
	}
	return res, nil
}

// Average of the source region [x0,x1)x[y0,y1), weighting border pixels by
// their covered fraction
func boxAverage(src []float32, w, h int32, x0, x1, y0, y1 float64) float32 {
	ix0, iy0:=int32(x0), int32(y0)
	ix1, iy1:=int32(x1), int32(y1)
	if ix1>=w { ix1=w-1 }
	if iy1>=h { iy1=h-1 }

	sum, weight:=float64(0), float64(0)
	for yy:=iy0; yy<=iy1; yy++ {
		wy:=coverage(float64(yy), y0, y1)
		if wy<=0 { continue }
		for xx:=ix0; xx<=ix1; xx++ {
			wx:=coverage(float64(xx), x0, x1)
			if wx<=0 { continue }
			sum+=wx*wy*float64(src[yy*w+xx])
			weight+=wx*wy
		}
	}
	if weight<=0 { return 0 }
	return float32(sum/weight)
}

// Fraction of the unit pixel starting at p covered by the interval [a,b)
func coverage(p, a, b float64) float64 {
	lo, hi:=p, p+1
	if a>lo { lo=a }
	if b<hi { hi=b }
	if hi<=lo { return 0 }
	return hi-lo
}

// Render a small preview: downscale first, then run the preset on the
// reduced buffer. Processing after reduction keeps previews fast on large
// inputs at the cost of minor divergence from the full-size result.
func GeneratePreview(ctx context.Context, b *PixelBuffer, preset string, intensity float32, maxDim int32) (*PixelBuffer, error) {
	small, err:=Downsample(b, maxDim)
	if err!=nil { return nil, err }
	return Enhance(ctx, small, preset, intensity)
}
