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
	"io/ioutil"
	"math"
	"testing"
)

// A 100x100 mono frame with background 0.1 and one Gaussian star of peak
// 1.0 and sigma 2 at (50,50)
func syntheticStarField() *PixelBuffer {
	b:=uniformBuffer(100, 100, 1, 0.1)
	const cx, cy=50, 50
	const sigma=2.0
	for y:=int32(cy-10); y<=cy+10; y++ {
		for x:=int32(cx-10); x<=cx+10; x++ {
			d2:=float64((x-cx)*(x-cx)+(y-cy)*(y-cy))
			v:=0.1 + 0.9*float32(math.Exp(-d2/(2*sigma*sigma)))
			b.Set(x, y, 0, v)
		}
	}
	return b
}

func TestFindStarsSingleStar(t *testing.T) {
	b:=syntheticStarField()
	stars:=FindStars(b, NewStarDetectParams())
	if len(stars)!=1 {
		t.Fatalf("detected %d stars, want 1", len(stars))
	}
	s:=stars[0]
	if s.X!=50 || s.Y!=50 {
		t.Errorf("star center (%d,%d), want (50,50)", s.X, s.Y)
	}
	if s.Peak<0.99 {
		t.Errorf("star peak %g, want ~1.0", s.Peak)
	}
	if s.Radius<1 || s.Radius>6 {
		t.Errorf("star radius %g outside plausible range for sigma 2", s.Radius)
	}
}

func TestFindStarsIgnoresFlatField(t *testing.T) {
	b:=uniformBuffer(64, 64, 1, 0.2)
	if stars:=FindStars(b, NewStarDetectParams()); len(stars)!=0 {
		t.Errorf("detected %d stars on a flat field", len(stars))
	}
}

func TestReduceStarsZeroAmountIsIdentity(t *testing.T) {
	b:=syntheticStarField()
	res, err:=ReduceStars(b, 0, ioutil.Discard)
	if err!=nil { t.Fatal(err) }
	if !res.EqualsWithin(b, 0) {
		t.Error("amount 0 modified the image")
	}
}

func TestReduceStarsFullAmountRemovesPeak(t *testing.T) {
	b:=syntheticStarField()
	res, err:=ReduceStars(b, 1, ioutil.Discard)
	if err!=nil { t.Fatal(err) }
	if v:=res.At(50, 50, 0); v>0.5 {
		t.Errorf("star center still at %g after full reduction", v)
	}
}

func TestReduceStarsHalfAmountAttenuates(t *testing.T) {
	b:=syntheticStarField()
	res, err:=ReduceStars(b, 0.5, ioutil.Discard)
	if err!=nil { t.Fatal(err) }
	v:=res.At(50, 50, 0)
	if v>=1.0 { t.Errorf("center not attenuated: %g", v) }
	if v<0.3 { t.Errorf("half reduction removed too much: %g", v) }
}

func TestReduceStarsLeavesBackgroundUntouched(t *testing.T) {
	b:=syntheticStarField()
	res, err:=ReduceStars(b, 1, ioutil.Discard)
	if err!=nil { t.Fatal(err) }
	for _, pos:=range [][2]int32{{10,10},{90,10},{10,90},{90,90},{50,10}} {
		if got, want:=res.At(pos[0], pos[1], 0), b.At(pos[0], pos[1], 0); got!=want {
			t.Errorf("pixel (%d,%d) outside star mask changed from %g to %g", pos[0], pos[1], want, got)
		}
	}
}

func TestReduceStarsDeterministic(t *testing.T) {
	b:=syntheticStarField()
	a, err:=ReduceStars(b, 0.8, ioutil.Discard)
	if err!=nil { t.Fatal(err) }
	c, err:=ReduceStars(b, 0.8, ioutil.Discard)
	if err!=nil { t.Fatal(err) }
	if !a.EqualsWithin(c, 0) {
		t.Error("repeated reductions differ")
	}
}
