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

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color space conversions between RGB, HSV and CIE LAB representations.
// All conversions return a new buffer and leave the input untouched.
// HSV planes hold hue in degrees [0,360), saturation and value in [0,1].
// LAB planes hold L in [0,1] and a,b roughly in [-1,1]; out-of-unit values
// are expected in intermediate stages and clamp on conversion back to RGB.

// Convert an RGB buffer to HSV representation
func RGBToHSV(b *PixelBuffer) (*PixelBuffer, error) {
	if b.Channels!=3 { return nil, fmt.Errorf("%w: RGBToHSV needs 3 channels, have %d", ErrInvalidParameter, b.Channels) }
	res:=NewPixelBuffer(b.Width, b.Height, 3)
	l:=b.Pixels()
	rs, gs, bs:=b.Plane(0), b.Plane(1), b.Plane(2)
	hs, ss, vs:=res.Plane(0), res.Plane(1), res.Plane(2)
	for i:=int32(0); i<l; i++ {
		col:=colorful.Color{R:float64(rs[i]), G:float64(gs[i]), B:float64(bs[i])}
		h,s,v:=col.Hsv()
		hs[i], ss[i], vs[i]=float32(h), float32(s), float32(v)
	}
	return res, nil
}

// Convert an HSV buffer back to RGB, clamping on merge
func HSVToRGB(b *PixelBuffer) (*PixelBuffer, error) {
	if b.Channels!=3 { return nil, fmt.Errorf("%w: HSVToRGB needs 3 channels, have %d", ErrInvalidParameter, b.Channels) }
	res:=NewPixelBuffer(b.Width, b.Height, 3)
	l:=b.Pixels()
	hs, ss, vs:=b.Plane(0), b.Plane(1), b.Plane(2)
	rs, gs, bs:=res.Plane(0), res.Plane(1), res.Plane(2)
	for i:=int32(0); i<l; i++ {
		col:=colorful.Hsv(float64(hs[i]), float64(ss[i]), float64(vs[i])).Clamped()
		rs[i], gs[i], bs[i]=clampUnit(float32(col.R)), clampUnit(float32(col.G)), clampUnit(float32(col.B))
	}
	return res, nil
}

// Convert an RGB buffer to CIE LAB representation
func RGBToLab(b *PixelBuffer) (*PixelBuffer, error) {
	if b.Channels!=3 { return nil, fmt.Errorf("%w: RGBToLab needs 3 channels, have %d", ErrInvalidParameter, b.Channels) }
	res:=NewPixelBuffer(b.Width, b.Height, 3)
	l:=b.Pixels()
	rs, gs, bs:=b.Plane(0), b.Plane(1), b.Plane(2)
	ls, as, bbs:=res.Plane(0), res.Plane(1), res.Plane(2)
	for i:=int32(0); i<l; i++ {
		col:=colorful.Color{R:float64(rs[i]), G:float64(gs[i]), B:float64(bs[i])}
		ll,aa,bb:=col.Lab()
		ls[i], as[i], bbs[i]=float32(ll), float32(aa), float32(bb)
	}
	return res, nil
}

// Convert a CIE LAB buffer back to RGB, clamping on merge
func LabToRGB(b *PixelBuffer) (*PixelBuffer, error) {
	if b.Channels!=3 { return nil, fmt.Errorf("%w: LabToRGB needs 3 channels, have %d", ErrInvalidParameter, b.Channels) }
	res:=NewPixelBuffer(b.Width, b.Height, 3)
	l:=b.Pixels()
	ls, as, bbs:=b.Plane(0), b.Plane(1), b.Plane(2)
	rs, gs, bs:=res.Plane(0), res.Plane(1), res.Plane(2)
	for i:=int32(0); i<l; i++ {
		col:=colorful.Lab(float64(ls[i]), float64(as[i]), float64(bbs[i])).Clamped()
		rs[i], gs[i], bs[i]=clampUnit(float32(col.R)), clampUnit(float32(col.G)), clampUnit(float32(col.B))
	}
	return res, nil
}

// Multiply one channel plane by the given gain, leaving the other planes
// untouched. Gains are unconstrained, clamping is left to the caller.
func ScaleChannel(b *PixelBuffer, channel int32, gain float32) (*PixelBuffer, error) {
	if channel<0 || channel>=b.Channels {
		return nil, fmt.Errorf("%w: channel %d out of range [0,%d)", ErrInvalidParameter, channel, b.Channels)
	}
	res:=b.Clone()
	plane:=res.Plane(channel)
	for i, d:=range plane {
		plane[i]=d*gain
	}
	return res, nil
}

// Scale HSV saturation by the given gain, a direct way of boosting the
// mineral and nebula color signal. Returns a new clamped RGB buffer.
func ScaleSaturation(b *PixelBuffer, gain float32) (*PixelBuffer, error) {
	if b.Channels!=3 { return nil, fmt.Errorf("%w: ScaleSaturation needs 3 channels, have %d", ErrInvalidParameter, b.Channels) }
	res:=NewPixelBuffer(b.Width, b.Height, 3)
	l:=b.Pixels()
	rs, gs, bs:=b.Plane(0), b.Plane(1), b.Plane(2)
	rd, gd, bd:=res.Plane(0), res.Plane(1), res.Plane(2)
	for i:=int32(0); i<l; i++ {
		col:=colorful.Color{R:float64(rs[i]), G:float64(gs[i]), B:float64(bs[i])}
		h,s,v:=col.Hsv()
		s=s*float64(gain)
		if s>1 { s=1 }
		col=colorful.Hsv(h, s, v).Clamped()
		rd[i], gd[i], bd[i]=clampUnit(float32(col.R)), clampUnit(float32(col.G)), clampUnit(float32(col.B))
	}
	return res, nil
}

// Scale the CIE LAB a and b opponent channels around the neutral axis by
// the given gains, amplifying color separation without shifting luminance.
// Returns a new clamped RGB buffer.
func ScaleLabChannels(b *PixelBuffer, aGain, bGain float32) (*PixelBuffer, error) {
	if b.Channels!=3 { return nil, fmt.Errorf("%w: ScaleLabChannels needs 3 channels, have %d", ErrInvalidParameter, b.Channels) }
	res:=NewPixelBuffer(b.Width, b.Height, 3)
	l:=b.Pixels()
	rs, gs, bs:=b.Plane(0), b.Plane(1), b.Plane(2)
	rd, gd, bd:=res.Plane(0), res.Plane(1), res.Plane(2)
	for i:=int32(0); i<l; i++ {
		col:=colorful.Color{R:float64(rs[i]), G:float64(gs[i]), B:float64(bs[i])}
		ll,aa,bb:=col.Lab()
		col=colorful.Lab(ll, aa*float64(aGain), bb*float64(bGain)).Clamped()
		rd[i], gd[i], bd[i]=clampUnit(float32(col.R)), clampUnit(float32(col.G)), clampUnit(float32(col.B))
	}
	return res, nil
}

// Gray-world white balance: scales each channel so the channel means
// converge on the overall mean, blended by amount in [0,1].
// Amount 0 leaves gains at unity. Returns a new clamped buffer.
func WhiteBalance(b *PixelBuffer, amount float32) (*PixelBuffer, error) {
	if b.Channels!=3 { return nil, fmt.Errorf("%w: WhiteBalance needs 3 channels, have %d", ErrInvalidParameter, b.Channels) }
	l:=b.Pixels()
	means:=[3]float64{}
	for c:=int32(0); c<3; c++ {
		sum:=float64(0)
		for _, d:=range b.Plane(c) {
			sum+=float64(d)
		}
		means[c]=sum/float64(l)
	}
	gray:=(means[0]+means[1]+means[2])/3
	if gray<1e-6 {
		return nil, fmt.Errorf("%w: cannot white balance an all-black frame", ErrDegenerateInput)
	}

	res:=b.Clone()
	for c:=int32(0); c<3; c++ {
		if means[c]<1e-6 { continue }  // empty channel, nothing to balance
		gain:=float32(gray/means[c])
		eff :=1 + amount*(gain-1)
		plane:=res.Plane(c)
		for i, d:=range plane {
			plane[i]=clampUnit(d*eff)
		}
	}
	return res, nil
}
