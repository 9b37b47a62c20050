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
	"testing"
)

func TestPresetStageChains(t *testing.T) {
	want:=map[string][]OpKind{
		"general": {OpHistogramStretch, OpSaturationScale, OpDenoise},
		"deep_sky": {OpWhiteBalance, OpHistogramStretch, OpSaturationScale,
			OpUnsharpMask, OpDenoise},
		"deep_sky_starless": {OpWhiteBalance, OpHistogramStretch, OpStarReduce,
			OpSaturationScale, OpUnsharpMask, OpDenoise},
		"mineral_moon_subtle": {OpAdaptiveContrast, OpSaturationScale,
			OpUnsharpMask, OpDenoise},
		"mineral_moon_classic": {OpAdaptiveContrast, OpLabChannelScale,
			OpSaturationScale, OpUnsharpMask, OpDenoise},
		"mineral_moon_vivid": {OpAdaptiveContrast, OpLabChannelScale,
			OpSaturationScale, OpGammaCurve, OpUnsharpMask, OpDenoise},
		"moon_hdr": {OpAdaptiveContrast, OpAdaptiveContrast, OpAdaptiveContrast,
			OpGammaCurve, OpUnsharpMask, OpUnsharpMask, OpUnsharpMask, OpDenoise},
	}

	for name, kinds:=range want {
		preset, err:=GetPreset(name)
		if err!=nil { t.Fatalf("%s: %v", name, err) }
		if len(preset.Stages)!=len(kinds) {
			t.Errorf("%s: %d stages, want %d", name, len(preset.Stages), len(kinds))
			continue
		}
		for i, k:=range kinds {
			if preset.Stages[i].Kind!=k {
				t.Errorf("%s stage %d: %s, want %s", name, i, preset.Stages[i].Kind, k)
			}
		}
	}
}

func TestMineralPresetFinishingStages(t *testing.T) {
	cases:=map[string]struct{ radius, amount, denoise float32 }{
		"mineral_moon_classic": {classicUnsharpRadius, classicUnsharpAmount, classicDenoise},
		"mineral_moon_vivid":   {vividUnsharpRadius, vividUnsharpAmount, vividDenoise},
	}
	for name, c:=range cases {
		preset, err:=GetPreset(name)
		if err!=nil { t.Fatal(err) }
		var sharpen, denoise *Stage
		for i:=range preset.Stages {
			switch preset.Stages[i].Kind {
			case OpUnsharpMask: sharpen=&preset.Stages[i]
			case OpDenoise:     denoise=&preset.Stages[i]
			}
		}
		if sharpen==nil { t.Errorf("%s: no sharpening stage", name); continue }
		if denoise==nil { t.Errorf("%s: no denoise stage", name);    continue }

		op:=materializeStage(sharpen, 1)
		if op.Args["radius"]!=c.radius || op.Args["amount"]!=c.amount {
			t.Errorf("%s sharpen: radius %g amount %g, want %g/%g",
				name, op.Args["radius"], op.Args["amount"], c.radius, c.amount)
		}
		op=materializeStage(denoise, 1)
		if op.Args["strength"]!=c.denoise {
			t.Errorf("%s denoise: strength %g, want %g", name, op.Args["strength"], c.denoise)
		}
	}
}
