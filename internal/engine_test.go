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
	"io/ioutil"
	"testing"
)

func TestEnhanceZeroIntensityIsIdentity(t *testing.T) {
	b:=gradientBuffer(32, 32)
	for _, name:=range PresetNames() {
		res, err:=Enhance(context.Background(), b, name, 0)
		if err!=nil { t.Fatalf("%s: %v", name, err) }
		if !res.EqualsWithin(b, 0) {
			t.Errorf("%s: zero intensity is not bit-identical to the input", name)
		}
		if res==b { t.Errorf("%s: returned the input buffer instead of a copy", name) }
	}
}

func TestEnhanceDeterministic(t *testing.T) {
	b:=gradientBuffer(32, 32)
	a, err:=Enhance(context.Background(), b, "mineral_moon_classic", 0.7)
	if err!=nil { t.Fatal(err) }
	c, err:=Enhance(context.Background(), b, "mineral_moon_classic", 0.7)
	if err!=nil { t.Fatal(err) }
	if !a.EqualsWithin(c, 0) {
		t.Error("repeated runs with identical inputs differ")
	}
}

func TestEnhanceDoesNotModifyInput(t *testing.T) {
	b:=gradientBuffer(32, 32)
	orig:=b.Clone()
	if _, err:=Enhance(context.Background(), b, "general", 1); err!=nil { t.Fatal(err) }
	if !b.EqualsWithin(orig, 0) {
		t.Error("enhancement modified the input buffer")
	}
}

func TestEnhanceUnknownPreset(t *testing.T) {
	b:=gradientBuffer(8, 8)
	_, err:=Enhance(context.Background(), b, "no_such_preset", 1)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestEnhanceIntensityOutOfRange(t *testing.T) {
	b:=gradientBuffer(8, 8)
	for _, v:=range []float32{-0.1, 1.1} {
		if _, err:=Enhance(context.Background(), b, "general", v); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("intensity %g: expected ErrInvalidParameter, got %v", v, err)
		}
	}
}

func TestEnhanceCanceledContext(t *testing.T) {
	b:=gradientBuffer(8, 8)
	ctx, cancel:=context.WithCancel(context.Background())
	cancel()
	_, err:=Enhance(ctx, b, "general", 1)
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestEnhanceFailedJobReturnsNoOutput(t *testing.T) {
	b:=uniformBuffer(8, 8, 1, 0.5)  // mono input fails color stages
	job:=NewEnhanceJob("mineral_moon_classic", 1)
	job.LogWriter=ioutil.Discard
	res, err:=job.Run(context.Background(), b)
	if err==nil { t.Fatal("expected failure for mono input on a color preset") }
	if res!=nil { t.Error("failed job leaked a partial result") }
	if job.State!=StateFailed {
		t.Errorf("job state %v, want %v", job.State, StateFailed)
	}
}

func TestIntensityInterpolation(t *testing.T) {
	// half intensity of a LAB gain of 1.6 must interpolate to 1.3
	preset, err:=GetPreset("mineral_moon_classic")
	if err!=nil { t.Fatal(err) }
	for i:=range preset.Stages {
		if preset.Stages[i].Kind!=OpLabChannelScale { continue }
		op:=materializeStage(&preset.Stages[i], 0.5)
		if got:=op.Args["aGain"]; got<1.2999 || got>1.3001 {
			t.Errorf("aGain at half intensity: got %g want 1.3", got)
		}
		if !op.Active { t.Error("half-intensity stage must be active") }
		return
	}
	t.Fatal("mineral_moon_classic has no LAB scale stage")
}

func TestMaterializeStageInactiveAtZero(t *testing.T) {
	preset, err:=GetPreset("moon_hdr")
	if err!=nil { t.Fatal(err) }
	for i:=range preset.Stages {
		if op:=materializeStage(&preset.Stages[i], 0); op.Active {
			t.Errorf("stage %d (%s) active at zero intensity", i, op.Kind)
		}
	}
}

func TestPresetRegistryComplete(t *testing.T) {
	want:=[]string{
		"deep_sky", "deep_sky_starless", "general",
		"mineral_moon_classic", "mineral_moon_subtle", "mineral_moon_vivid",
		"moon_hdr",
	}
	got:=PresetNames()
	if len(got)!=len(want) {
		t.Fatalf("registered presets %v, want %v", got, want)
	}
	for i:=range want {
		if got[i]!=want[i] { t.Errorf("preset %d: got %s want %s", i, got[i], want[i]) }
	}
}
