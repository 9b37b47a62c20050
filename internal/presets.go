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
	"sort"
)

// Kinds of pipeline stages a preset can chain together
type OpKind int

const (
	OpWhiteBalance OpKind = iota
	OpHistogramStretch
	OpGammaCurve
	OpLabChannelScale
	OpSaturationScale
	OpAdaptiveContrast
	OpUnsharpMask
	OpDenoise
	OpStarReduce
)

func (k OpKind) String() string {
	switch k {
	case OpWhiteBalance:     return "whiteBalance"
	case OpHistogramStretch: return "histogramStretch"
	case OpGammaCurve:       return "gammaCurve"
	case OpLabChannelScale:  return "labChannelScale"
	case OpSaturationScale:  return "saturationScale"
	case OpAdaptiveContrast: return "adaptiveContrast"
	case OpUnsharpMask:      return "unsharpMask"
	case OpDenoise:          return "denoise"
	case OpStarReduce:       return "starReduce"
	}
	return "unknown"
}

// A single stage parameter with its neutral (off) value and its value at
// full nominal strength. Effective values are interpolated between the two
// by the intensity scalar.
type Param struct {
	Name string
	Off  float32
	Nom  float32
}

// Interpolated parameter value for intensity t in [0,1]
func (p Param) Eff(t float32) float32 {
	return p.Off + t*(p.Nom-p.Off)
}

// One step of a preset pipeline
type Stage struct {
	Kind   OpKind
	Params []Param
}

// An ordered chain of stages forming one named look. Definitions are
// immutable after registry construction; the engine materializes per-request
// operators from them and never writes back.
type PresetDefinition struct {
	Name        string
	Description string
	BestFor     string
	Stages      []Stage
}

func (p *PresetDefinition) String() string {
	return fmt.Sprintf("%s (%d stages)", p.Name, len(p.Stages))
}

// Tuned stage strengths. Kept as named constants so look changes happen
// here, not scattered through pipeline code.
const (
	stretchLowPerc        = 0.1
	stretchHighPerc       = 99.9
	generalSaturation     = 1.15
	generalDenoise        = 2.0
	deepSkyWhiteBalance   = 1.0
	deepSkySaturation     = 1.4
	deepSkyUnsharpRadius  = 2.0
	deepSkyUnsharpAmount  = 0.5
	deepSkyDenoise        = 6.0
	starlessReduceAmount  = 0.8
	subtleClaheClip       = 1.5
	mineralClaheClip      = 2.0
	vividClaheClip        = 2.5
	mineralClaheGrid      = 8.0
	mineralLabGain        = 1.6
	mineralSaturation     = 1.25
	classicUnsharpRadius  = 1.0
	classicUnsharpAmount  = 0.25
	classicDenoise        = 2.0
	subtleSaturation      = 1.4
	subtleUnsharpRadius   = 1.0
	subtleUnsharpAmount   = 0.2
	subtleDenoise         = 2.0
	vividSaturation       = 3.5
	vividGamma            = 0.9
	vividUnsharpRadius    = 1.5
	vividUnsharpAmount    = 0.4
	vividDenoise          = 3.0
	hdrClaheClipCoarse    = 3.0
	hdrClaheClipMid       = 2.5
	hdrClaheClipFine      = 2.0
	hdrClaheGridCoarse    = 4.0
	hdrClaheGridMid       = 8.0
	hdrClaheGridFine      = 16.0
	hdrGamma              = 0.85
	hdrDenoise            = 3.0
)

// Off values shared by every stage kind: the parameter settings under which
// the stage is a mathematical identity
func stretchStage() Stage {
	return Stage{OpHistogramStretch, []Param{
		{"low",  0,   stretchLowPerc},
		{"high", 100, stretchHighPerc},
	}}
}

func satStage(nom float32) Stage {
	return Stage{OpSaturationScale, []Param{{"gain", 1, nom}}}
}

func claheStage(clip, grid float32) Stage {
	return Stage{OpAdaptiveContrast, []Param{
		{"clip",     1, clip},
		{"grid",     grid, grid},
		{"strength", 0, 1},
	}}
}

func unsharpStage(radius, amount float32) Stage {
	return Stage{OpUnsharpMask, []Param{
		{"radius", radius, radius},
		{"amount", 0, amount},
	}}
}

func denoiseStage(nom float32) Stage {
	return Stage{OpDenoise, []Param{{"strength", 0, nom}}}
}

func gammaStage(nom float32) Stage {
	return Stage{OpGammaCurve, []Param{{"gamma", 1, nom}}}
}

var presetRegistry=map[string]*PresetDefinition{
	"general": {
		Name:        "general",
		Description: "Balanced stretch, gentle color boost and light denoising",
		BestFor:     "Unknown or mixed subjects",
		Stages: []Stage{
			stretchStage(),
			satStage(generalSaturation),
			denoiseStage(generalDenoise),
		},
	},
	"deep_sky": {
		Name:        "deep_sky",
		Description: "Aggressive stretch with white balance, strong color and noise control",
		BestFor:     "Nebulae and galaxies",
		Stages: []Stage{
			{OpWhiteBalance, []Param{{"amount", 0, deepSkyWhiteBalance}}},
			stretchStage(),
			satStage(deepSkySaturation),
			unsharpStage(deepSkyUnsharpRadius, deepSkyUnsharpAmount),
			denoiseStage(deepSkyDenoise),
		},
	},
	"deep_sky_starless": {
		Name:        "deep_sky_starless",
		Description: "Deep sky processing with star reduction for nebulosity emphasis",
		BestFor:     "Nebulae where stars distract",
		Stages: []Stage{
			{OpWhiteBalance, []Param{{"amount", 0, deepSkyWhiteBalance}}},
			stretchStage(),
			{OpStarReduce, []Param{{"amount", 0, starlessReduceAmount}}},
			satStage(deepSkySaturation),
			unsharpStage(deepSkyUnsharpRadius, deepSkyUnsharpAmount),
			denoiseStage(deepSkyDenoise),
		},
	},
	"mineral_moon_subtle": {
		Name:        "mineral_moon_subtle",
		Description: "Mild local contrast and saturation to hint at surface minerals",
		BestFor:     "Lunar close-ups, natural look",
		Stages: []Stage{
			claheStage(subtleClaheClip, mineralClaheGrid),
			satStage(subtleSaturation),
			unsharpStage(subtleUnsharpRadius, subtleUnsharpAmount),
			denoiseStage(subtleDenoise),
		},
	},
	"mineral_moon_classic": {
		Name:        "mineral_moon_classic",
		Description: "Classic mineral moon: CLAHE plus LAB chroma expansion",
		BestFor:     "Full-disk lunar images",
		Stages: []Stage{
			claheStage(mineralClaheClip, mineralClaheGrid),
			{OpLabChannelScale, []Param{
				{"aGain", 1, mineralLabGain},
				{"bGain", 1, mineralLabGain},
			}},
			satStage(mineralSaturation),
			unsharpStage(classicUnsharpRadius, classicUnsharpAmount),
			denoiseStage(classicDenoise),
		},
	},
	"mineral_moon_vivid": {
		Name:        "mineral_moon_vivid",
		Description: "Heavily saturated mineral palette with strong local contrast",
		BestFor:     "Dramatic lunar composites",
		Stages: []Stage{
			claheStage(vividClaheClip, mineralClaheGrid),
			{OpLabChannelScale, []Param{
				{"aGain", 1, mineralLabGain},
				{"bGain", 1, mineralLabGain},
			}},
			satStage(vividSaturation),
			gammaStage(vividGamma),
			unsharpStage(vividUnsharpRadius, vividUnsharpAmount),
			denoiseStage(vividDenoise),
		},
	},
	"moon_hdr": {
		Name:        "moon_hdr",
		Description: "Multi-scale local contrast and sharpening for high dynamic range detail",
		BestFor:     "Lunar terminator and earthshine",
		Stages: []Stage{
			claheStage(hdrClaheClipCoarse, hdrClaheGridCoarse),
			claheStage(hdrClaheClipMid,    hdrClaheGridMid),
			claheStage(hdrClaheClipFine,   hdrClaheGridFine),
			gammaStage(hdrGamma),
			unsharpStage(1.0, 0.3),
			unsharpStage(2.5, 0.2),
			unsharpStage(5.0, 0.15),
			denoiseStage(hdrDenoise),
		},
	},
}

// Look up a preset by name. The returned definition is shared and must not
// be modified.
func GetPreset(name string) (*PresetDefinition, error) {
	p, ok:=presetRegistry[name]
	if !ok { return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidParameter, name) }
	return p, nil
}

// Registered preset names in stable order
func PresetNames() []string {
	names:=make([]string, 0, len(presetRegistry))
	for name:=range presetRegistry {
		names=append(names, name)
	}
	sort.Strings(names)
	return names
}

// All registered definitions in stable name order
func ListPresets() []*PresetDefinition {
	names:=PresetNames()
	defs:=make([]*PresetDefinition, len(names))
	for i, n:=range names {
		defs[i]=presetRegistry[n]
	}
	return defs
}
