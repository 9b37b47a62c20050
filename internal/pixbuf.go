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
)

// Luminance weights for RGB data per ITU-R BT.601
const (
	LumWeightR = 0.299
	LumWeightG = 0.587
	LumWeightB = 0.114
)

// In-memory image buffer with normalized float32 samples in [0,1].
// Data is stored channel-planar: plane c occupies Data[c*w*h : (c+1)*w*h],
// each plane in row-major order. Channels is 1 (mono) or 3 (RGB).
// Width, Height and Channels are immutable after creation.
type PixelBuffer struct {
	Data     []float32
	Width    int32
	Height   int32
	Channels int32
}

// Allocate a zeroed pixel buffer of the given dimensions
func NewPixelBuffer(width, height, channels int32) *PixelBuffer {
	return &PixelBuffer{
		Data    : make([]float32, int(width)*int(height)*int(channels)),
		Width   : width,
		Height  : height,
		Channels: channels,
	}
}

// Number of pixels per channel plane
func (b *PixelBuffer) Pixels() int32 { return b.Width*b.Height }

// Channel plane c as a flat row-major slice
func (b *PixelBuffer) Plane(c int32) []float32 {
	l:=b.Pixels()
	return b.Data[c*l:(c+1)*l]
}

// Sample at (x,y) in channel c
func (b *PixelBuffer) At(x, y, c int32) float32 {
	return b.Data[c*b.Pixels() + y*b.Width + x]
}

// Set sample at (x,y) in channel c
func (b *PixelBuffer) Set(x, y, c int32, v float32) {
	b.Data[c*b.Pixels() + y*b.Width + x]=v
}

// Deep copy of the buffer
func (b *PixelBuffer) Clone() *PixelBuffer {
	data:=make([]float32, len(b.Data))
	copy(data, b.Data)
	return &PixelBuffer{Data:data, Width:b.Width, Height:b.Height, Channels:b.Channels}
}

// Validate dimension and channel invariants
func (b *PixelBuffer) Validate() error {
	if b==nil || b.Data==nil {
		return fmt.Errorf("%w: nil pixel buffer", ErrInvalidParameter)
	}
	if b.Width<1 || b.Height<1 {
		return fmt.Errorf("%w: malformed dimensions %dx%d", ErrInvalidParameter, b.Width, b.Height)
	}
	if b.Channels!=1 && b.Channels!=3 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidParameter, b.Channels)
	}
	if int64(len(b.Data))!=int64(b.Width)*int64(b.Height)*int64(b.Channels) {
		return fmt.Errorf("%w: data length %d does not match %dx%dx%d",
			ErrInvalidParameter, len(b.Data), b.Width, b.Height, b.Channels)
	}
	return nil
}

// Clamp all samples into [0,1] in place
func (b *PixelBuffer) Clamp() {
	data:=b.Data
	for i, d:=range data {
		if d<0 { data[i]=0 } else if d>1 { data[i]=1 }
	}
}

// Compute the luminance plane. For mono buffers this is a copy of the
// single plane, for RGB a BT.601 weighted combination.
func (b *PixelBuffer) Luminance() []float32 {
	l:=b.Pixels()
	lum:=make([]float32, l)
	if b.Channels==1 {
		copy(lum, b.Data)
		return lum
	}
	rs, gs, bs:=b.Plane(0), b.Plane(1), b.Plane(2)
	for i:=int32(0); i<l; i++ {
		lum[i]=LumWeightR*rs[i] + LumWeightG*gs[i] + LumWeightB*bs[i]
	}
	return lum
}

// Per-sample equality within the given tolerance
func (b *PixelBuffer) EqualsWithin(other *PixelBuffer, tolerance float32) bool {
	if b.Width!=other.Width || b.Height!=other.Height || b.Channels!=other.Channels { return false }
	for i, d:=range b.Data {
		diff:=d-other.Data[i]
		if diff<0 { diff=-diff }
		if diff>tolerance { return false }
	}
	return true
}

func clampUnit(v float32) float32 {
	if v<0 { return 0 }
	if v>1 { return 1 }
	return v
}
