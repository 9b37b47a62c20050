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
	"io"
	"math"

	"github.com/valyala/fastrand"
)

// A detected star: center coordinate, estimated radius at which brightness
// falls to half peak, and peak value. Transient per-request data, consumed
// only by the reducer.
type Star struct {
	X      int32
	Y      int32
	Radius float32
	Peak   float32
}

// Detection and reduction tuning. Thresholds are calibration-dependent, so
// they live here as configuration rather than as constants in the scanner.
type StarDetectParams struct {
	Sigma       float32 // detection threshold in standard deviations above the mean background
	MaxRadius   int32   // compactness bound, candidates wider than this are treated as nebulosity
	BackExpand  int32   // half-width of the surrounding box used for local background estimation
	MaskGrow    float32 // inpainting mask radius as a multiple of the detected radius
	JitterScale float32 // texture jitter amplitude as a multiple of the background deviation
}

func NewStarDetectParams() *StarDetectParams {
	return &StarDetectParams{
		Sigma      : 2.5,
		MaxRadius  : 16,
		BackExpand : 24,
		MaskGrow   : 1.5,
		JitterScale: 0.25,
	}
}

// Detect locally-maximal, compact bright regions in the luminance channel.
// A candidate center must exceed a dynamic threshold derived from global
// background statistics, stand above its local background estimate, and
// fall back to half peak within MaxRadius, which excludes extended
// nebulosity and large saturated disks.
func FindStars(b *PixelBuffer, p *StarDetectParams) []Star {
	lum:=b.Luminance()
	w, h:=b.Width, b.Height
	stats:=CalcBasicStats(lum)
	threshold:=stats.Mean + p.Sigma*stats.StdDev

	stars:=[]Star{}
	for y:=int32(1); y<h-1; y++ {
		for x:=int32(1); x<w-1; x++ {
			v:=lum[y*w+x]
			if v<threshold { continue }
			if !isLocalMax(lum, w, x, y) { continue }
			if insideExistingStar(stars, x, y) { continue }

			background:=localBackground(lum, w, h, x, y, p)
			if v-background < p.Sigma*stats.StdDev { continue }

			radius, ok:=halfPeakRadius(lum, w, h, x, y, v, background, p.MaxRadius)
			if !ok { continue }  // too extended, not a star

			stars=append(stars, Star{X:x, Y:y, Radius:radius, Peak:v})
		}
	}
	return stars
}

func isLocalMax(lum []float32, w, x, y int32) bool {
	v:=lum[y*w+x]
	for dy:=int32(-1); dy<=1; dy++ {
		for dx:=int32(-1); dx<=1; dx++ {
			if dx==0 && dy==0 { continue }
			n:=lum[(y+dy)*w+x+dx]
			if n>v { return false }
			// break plateau ties towards the top-left pixel
			if n==v && (dy<0 || (dy==0 && dx<0)) { return false }
		}
	}
	return true
}

// Median of the box ring surrounding the candidate, excluding the core
func localBackground(lum []float32, w, h, x, y int32, p *StarDetectParams) float32 {
	outer:=p.BackExpand
	inner:=p.MaxRadius
	samples:=make([]float32, 0, 4*outer*outer)
	for dy:=-outer; dy<=outer; dy++ {
		yy:=y+dy
		if yy<0 || yy>=h { continue }
		for dx:=-outer; dx<=outer; dx++ {
			xx:=x+dx
			if xx<0 || xx>=w { continue }
			if dx>=-inner && dx<=inner && dy>=-inner && dy<=inner { continue }
			samples=append(samples, lum[yy*w+xx])
		}
	}
	if len(samples)==0 { return 0 }
	return CalcMedian(samples)
}

// Estimate the radius at which brightness falls to half peak by walking
// outward in eight directions. Returns ok=false when any direction stays
// above half peak beyond maxRadius (extended structure).
func halfPeakRadius(lum []float32, w, h, x, y int32, peak, background float32, maxRadius int32) (float32, bool) {
	halfPeak:=background + 0.5*(peak-background)
	dirs:=[8][2]int32{{1,0},{-1,0},{0,1},{0,-1},{1,1},{1,-1},{-1,1},{-1,-1}}

	sum:=float32(0)
	for _, d:=range dirs {
		r:=int32(1)
		for ; r<=maxRadius; r++ {
			xx, yy:=x+d[0]*r, y+d[1]*r
			if xx<0 || xx>=w || yy<0 || yy>=h { break }
			if lum[yy*w+xx]<halfPeak { break }
		}
		if r>maxRadius { return 0, false }
		diag:=float32(1)
		if d[0]!=0 && d[1]!=0 { diag=float32(math.Sqrt2) }
		sum+=float32(r)*diag
	}
	radius:=sum/8
	if radius<1 { radius=1 }
	return radius, true
}

func insideExistingStar(stars []Star, x, y int32) bool {
	for _, s:=range stars {
		dx, dy:=float32(x-s.X), float32(y-s.Y)
		r:=s.Radius+1
		if dx*dx+dy*dy<=r*r { return true }
	}
	return false
}

// Shrink or remove the given stars by masked inpainting. Builds a mask of
// circles slightly larger than each detected radius; overlapping circles
// merge into a single region, so seams cannot appear between neighbors.
// Every masked pixel is moved towards a background estimate sampled from
// the surrounding unmasked texture, scaled by amount in [0,1]; pixels
// outside the mask are never touched. The texture jitter uses a fixed
// seed, so results are reproducible. Returns a new buffer.
func ReduceStarList(b *PixelBuffer, stars []Star, amount float32, p *StarDetectParams) *PixelBuffer {
	res:=b.Clone()
	if amount<=0 || len(stars)==0 { return res }
	if amount>1 { amount=1 }

	w, h:=b.Width, b.Height
	mask:=make([]bool, w*h)
	for _, s:=range stars {
		r:=s.Radius*p.MaskGrow + 1
		ri:=int32(math.Ceil(float64(r)))
		for dy:=-ri; dy<=ri; dy++ {
			yy:=s.Y+dy
			if yy<0 || yy>=h { continue }
			for dx:=-ri; dx<=ri; dx++ {
				xx:=s.X+dx
				if xx<0 || xx>=w { continue }
				if float32(dx*dx+dy*dy)<=r*r {
					mask[yy*w+xx]=true
				}
			}
		}
	}

	lum:=b.Luminance()
	bgStats:=backgroundStats(lum, mask)
	jitterAmp:=bgStats.StdDev*p.JitterScale

	var rng fastrand.RNG
	rng.Seed(0x5eed)

	dirs:=[8][2]int32{{1,0},{-1,0},{0,1},{0,-1},{1,1},{1,-1},{-1,1},{-1,-1}}
	maxWalk:=int32(4)*p.MaxRadius

	for y:=int32(0); y<h; y++ {
		for x:=int32(0); x<w; x++ {
			if !mask[y*w+x] { continue }

			// inverse-distance weighted sample of the nearest unmasked
			// texture along each direction
			var acc [3]float32
			wSum:=float32(0)
			for _, d:=range dirs {
				for r:=int32(1); r<=maxWalk; r++ {
					xx, yy:=x+d[0]*r, y+d[1]*r
					if xx<0 || xx>=w || yy<0 || yy>=h { break }
					if mask[yy*w+xx] { continue }
					weight:=1/float32(r)
					wSum+=weight
					for c:=int32(0); c<b.Channels; c++ {
						acc[c]+=weight*b.At(xx, yy, c)
					}
					break
				}
			}
			if wSum==0 { continue }  // fully enclosed, keep original

			// jitter reproduces background grain instead of a flat fill
			jitter:=(float32(rng.Uint32n(2048))/1024 - 1)*jitterAmp
			for c:=int32(0); c<b.Channels; c++ {
				sample:=clampUnit(acc[c]/wSum + jitter)
				orig:=res.At(x, y, c)
				res.Set(x, y, c, clampUnit(orig + amount*(sample-orig)))
			}
		}
	}
	return res
}

// Statistics of the unmasked samples only
func backgroundStats(lum []float32, mask []bool) *BasicStats {
	samples:=make([]float32, 0, len(lum))
	for i, v:=range lum {
		if !mask[i] { samples=append(samples, v) }
	}
	if len(samples)==0 { return &BasicStats{} }
	return CalcBasicStats(samples)
}

// Detect stars with default parameters and inpaint them away by amount,
// logging the detection count to the given writer. Standalone entry point,
// also reachable as a preset pipeline stage.
func ReduceStars(b *PixelBuffer, amount float32, logWriter io.Writer) (*PixelBuffer, error) {
	if err:=b.Validate(); err!=nil { return nil, err }
	p:=NewStarDetectParams()
	stars:=FindStars(b, p)
	fmt.Fprintf(logWriter, "Detected %d stars, reducing by %.2f\n", len(stars), amount)
	return ReduceStarList(b, stars, amount, p), nil
}
