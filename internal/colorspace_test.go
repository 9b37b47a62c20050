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
	"errors"
	"testing"
)

func TestHSVRoundTrip(t *testing.T) {
	b:=gradientBuffer(16, 16)
	hsv, err:=RGBToHSV(b)
	if err!=nil { t.Fatal(err) }
	back, err:=HSVToRGB(hsv)
	if err!=nil { t.Fatal(err) }
	if !back.EqualsWithin(b, 1e-3) {
		t.Error("HSV round trip deviates by more than 1e-3")
	}
}

func TestLabRoundTrip(t *testing.T) {
	b:=gradientBuffer(16, 16)
	lab, err:=RGBToLab(b)
	if err!=nil { t.Fatal(err) }
	back, err:=LabToRGB(lab)
	if err!=nil { t.Fatal(err) }
	if !back.EqualsWithin(b, 2e-3) {
		t.Error("Lab round trip deviates by more than 2e-3")
	}
}

func TestScaleSaturationGrayStaysGray(t *testing.T) {
	b:=uniformBuffer(4, 4, 3, 0.5)
	res, err:=ScaleSaturation(b, 3.0)
	if err!=nil { t.Fatal(err) }
	if !res.EqualsWithin(b, 1e-3) {
		t.Error("saturating a neutral gray changed its color")
	}
}

func TestScaleSaturationGainOneIsNearIdentity(t *testing.T) {
	b:=gradientBuffer(8, 8)
	res, err:=ScaleSaturation(b, 1.0)
	if err!=nil { t.Fatal(err) }
	if !res.EqualsWithin(b, 1e-3) {
		t.Error("saturation gain 1 altered the image beyond conversion tolerance")
	}
}

func TestScaleChannel(t *testing.T) {
	b:=uniformBuffer(4, 4, 3, 0.4)
	res, err:=ScaleChannel(b, 1, 3.0)
	if err!=nil { t.Fatal(err) }

	for i, v:=range res.Plane(1) {
		// no clamping: 0.4*3 exceeds the unit range and must stay that way
		if d:=v-1.2; d>1e-6 || d< -1e-6 {
			t.Fatalf("green sample %d: got %g want 1.2", i, v)
		}
	}
	for _, c:=range []int32{0, 2} {
		for i, v:=range res.Plane(c) {
			if v!=0.4 { t.Fatalf("plane %d sample %d changed to %g", c, i, v) }
		}
	}
	if !b.EqualsWithin(uniformBuffer(4, 4, 3, 0.4), 0) {
		t.Error("input buffer modified")
	}
}

func TestScaleChannelOutOfRange(t *testing.T) {
	b:=uniformBuffer(4, 4, 3, 0.5)
	for _, c:=range []int32{-1, 3} {
		if _, err:=ScaleChannel(b, c, 2.0); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("channel %d: expected ErrInvalidParameter, got %v", c, err)
		}
	}
}

func TestScaleSaturationRejectsMono(t *testing.T) {
	b:=uniformBuffer(4, 4, 1, 0.5)
	if _, err:=ScaleSaturation(b, 1.5); err==nil {
		t.Error("expected error for mono input")
	}
}

func TestWhiteBalanceEqualizesMeans(t *testing.T) {
	b:=uniformBuffer(8, 8, 3, 0)
	for i:=range b.Plane(0) { b.Plane(0)[i]=0.6 }
	for i:=range b.Plane(1) { b.Plane(1)[i]=0.4 }
	for i:=range b.Plane(2) { b.Plane(2)[i]=0.2 }

	res, err:=WhiteBalance(b, 1.0)
	if err!=nil { t.Fatal(err) }

	stats:=[3]float32{}
	for c:=int32(0); c<3; c++ {
		stats[c]=CalcBasicStats(res.Plane(c)).Mean
	}
	if d:=stats[0]-stats[1]; d>1e-4 || d< -1e-4 {
		t.Errorf("red and green means differ after full white balance: %g vs %g", stats[0], stats[1])
	}
	if d:=stats[1]-stats[2]; d>1e-4 || d< -1e-4 {
		t.Errorf("green and blue means differ after full white balance: %g vs %g", stats[1], stats[2])
	}
}

func TestWhiteBalanceAllBlackIsDegenerate(t *testing.T) {
	b:=uniformBuffer(8, 8, 3, 0)
	if _, err:=WhiteBalance(b, 1.0); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestWhiteBalanceZeroAmountIsIdentity(t *testing.T) {
	b:=gradientBuffer(8, 8)
	res, err:=WhiteBalance(b, 0)
	if err!=nil { t.Fatal(err) }
	if !res.EqualsWithin(b, 0) {
		t.Error("white balance amount 0 modified the image")
	}
}
