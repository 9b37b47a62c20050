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
	"errors"
	"testing"
)

func TestDownsamplePreservesAspect(t *testing.T) {
	b:=uniformBuffer(200, 100, 3, 0.5)
	res, err:=Downsample(b, 50)
	if err!=nil { t.Fatal(err) }
	if res.Width!=50 || res.Height!=25 {
		t.Errorf("downsampled to %dx%d, want 50x25", res.Width, res.Height)
	}

	tall:=uniformBuffer(60, 240, 3, 0.5)
	res, err=Downsample(tall, 60)
	if err!=nil { t.Fatal(err) }
	if res.Width!=15 || res.Height!=60 {
		t.Errorf("downsampled to %dx%d, want 15x60", res.Width, res.Height)
	}
}

func TestDownsampleSmallInputIsCopied(t *testing.T) {
	b:=gradientBuffer(30, 20)
	res, err:=Downsample(b, 64)
	if err!=nil { t.Fatal(err) }
	if res==b { t.Fatal("returned the input buffer instead of a copy") }
	if !res.EqualsWithin(b, 0) {
		t.Error("small input changed during downsampling")
	}
}

func TestDownsamplePreservesFlux(t *testing.T) {
	// area averaging keeps the mean of a uniform field exact
	b:=uniformBuffer(97, 61, 1, 0.37)  // odd scale factors
	res, err:=Downsample(b, 40)
	if err!=nil { t.Fatal(err) }
	for i, v:=range res.Data {
		if d:=v-0.37; d>1e-5 || d< -1e-5 {
			t.Fatalf("sample %d drifted to %g", i, v)
		}
	}
}

func TestDownsampleRejectsBadSize(t *testing.T) {
	b:=uniformBuffer(8, 8, 1, 0.5)
	if _, err:=Downsample(b, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestGeneratePreview(t *testing.T) {
	b:=gradientBuffer(300, 150)
	res, err:=GeneratePreview(context.Background(), b, "general", 1, 64)
	if err!=nil { t.Fatal(err) }
	if res.Width!=64 || res.Height!=32 {
		t.Errorf("preview is %dx%d, want 64x32", res.Width, res.Height)
	}
}

func TestGeneratePreviewUnknownPreset(t *testing.T) {
	b:=gradientBuffer(32, 32)
	if _, err:=GeneratePreview(context.Background(), b, "nope", 1, 16); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
