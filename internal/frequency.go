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

// Compute a normalized 1D Gaussian kernel for the given sigma,
// truncated at three sigmas on either side.
func GaussianKernel1D(sigma float32) []float32 {
	radius:=int(math.Ceil(float64(sigma)*3))
	if radius<1 { radius=1 }
	kernel:=make([]float32, 2*radius+1)
	sum:=float32(0)
	for i:=-radius; i<=radius; i++ {
		v:=float32(math.Exp(-0.5*float64(i)*float64(i)/(float64(sigma)*float64(sigma))))
		kernel[i+radius]=v
		sum+=v
	}
	for i:=range kernel {
		kernel[i]/=sum
	}
	return kernel
}

// Separable Gaussian blur of a single plane, with edge clamping.
// Returns a new slice.
func blurPlane(plane []float32, width int32, sigma float32) []float32 {
	kernel:=GaussianKernel1D(sigma)
	radius:=int32(len(kernel)/2)
	height:=int32(len(plane))/width

	tmp:=make([]float32, len(plane))
	for y:=int32(0); y<height; y++ {
		row:=plane[y*width:(y+1)*width]
		out:=tmp  [y*width:(y+1)*width]
		for x:=int32(0); x<width; x++ {
			sum:=float32(0)
			for k:=-radius; k<=radius; k++ {
				xx:=x+k
				if xx<0 { xx=0 }
				if xx>=width { xx=width-1 }
				sum+=row[xx]*kernel[k+radius]
			}
			out[x]=sum
		}
	}

	res:=make([]float32, len(plane))
	for y:=int32(0); y<height; y++ {
		for x:=int32(0); x<width; x++ {
			sum:=float32(0)
			for k:=-radius; k<=radius; k++ {
				yy:=y+k
				if yy<0 { yy=0 }
				if yy>=height { yy=height-1 }
				sum+=tmp[yy*width+x]*kernel[k+radius]
			}
			res[y*width+x]=sum
		}
	}
	return res
}

// Unsharp masking: subtracts a Gaussian-blurred copy at the given radius
// to obtain a detail layer, and adds back amount times that layer,
// clamping the result. Deterministic for identical input and parameters.
// Returns a new buffer.
func UnsharpMask(b *PixelBuffer, radius, amount float32) *PixelBuffer {
	if radius<=0 || amount==0 { return b.Clone() }
	res:=NewPixelBuffer(b.Width, b.Height, b.Channels)
	for c:=int32(0); c<b.Channels; c++ {
		src:=b.Plane(c)
		dst:=res.Plane(c)
		blurred:=blurPlane(src, b.Width, radius)
		for i, d:=range src {
			dst[i]=clampUnit(d + amount*(d-blurred[i]))
		}
	}
	return res
}

// Edge threshold for denoising: luminance steps larger than this are
// treated as real structure and left intact.
const denoiseEdgeSigma=0.1

// Edge-preserving noise suppression. Performs bilateral-weighted spatial
// averaging: the neighborhood radius grows with strength, and each
// neighbor is weighted by both spatial distance and luminance similarity,
// so gradients above the edge threshold survive while background grain is
// smoothed out. Strength 0 is a no-op. Deterministic. Returns a new buffer.
func Denoise(b *PixelBuffer, strength float32) *PixelBuffer {
	if strength<=0 { return b.Clone() }

	radius:=int32(strength+0.5)
	if radius<1 { radius=1 }
	if radius>7 { radius=7 }
	spatialSigma:=float32(radius)*0.5
	spatial:=GaussianKernel1D(spatialSigma)
	sOff:=int32(len(spatial)/2)
	if sOff<radius { radius=sOff }

	lum:=b.Luminance()
	w, h:=b.Width, b.Height
	invRange:=1.0/(2*denoiseEdgeSigma*denoiseEdgeSigma)

	res:=NewPixelBuffer(w, h, b.Channels)
	numCh:=b.Channels
	var acc [3]float32
	for y:=int32(0); y<h; y++ {
		for x:=int32(0); x<w; x++ {
			center:=lum[y*w+x]
			wSum:=float32(0)
			acc[0], acc[1], acc[2]=0, 0, 0
			for dy:=-radius; dy<=radius; dy++ {
				yy:=y+dy
				if yy<0 || yy>=h { continue }
				for dx:=-radius; dx<=radius; dx++ {
					xx:=x+dx
					if xx<0 || xx>=w { continue }
					diff:=lum[yy*w+xx]-center
					weight:=spatial[dy+sOff]*spatial[dx+sOff]*
						float32(math.Exp(-float64(diff*diff)*float64(invRange)))
					wSum+=weight
					for c:=int32(0); c<numCh; c++ {
						acc[c]+=weight*b.At(xx, yy, c)
					}
				}
			}
			for c:=int32(0); c<numCh; c++ {
				res.Set(x, y, c, acc[c]/wSum)
			}
		}
	}
	return res
}
