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
	"fmt"
	"io"
	"time"
)

// Lifecycle of a single enhancement request
type EnhanceState int

const (
	StateIdle EnhanceState = iota
	StateValidating
	StateExecuting
	StateDone
	StateFailed
)

func (s EnhanceState) String() string {
	switch s {
	case StateIdle:       return "idle"
	case StateValidating: return "validating"
	case StateExecuting:  return "executing"
	case StateDone:       return "done"
	case StateFailed:     return "failed"
	}
	return "unknown"
}

// A preset stage materialized at a concrete intensity. Inactive operators
// are skipped entirely instead of being applied with neutral parameters,
// so a zero-intensity run returns the input bit for bit, with no
// round-trip losses from color space conversions.
type StageOp struct {
	Kind   OpKind
	Args   map[string]float32
	Active bool
}

func (op *StageOp) String() string {
	return fmt.Sprintf("%s%v active=%v", op.Kind, op.Args, op.Active)
}

func materializeStage(s *Stage, t float32) *StageOp {
	op:=&StageOp{Kind:s.Kind, Args:map[string]float32{}}
	for _, p:=range s.Params {
		eff:=p.Eff(t)
		op.Args[p.Name]=eff
		if eff!=p.Off { op.Active=true }
	}
	return op
}

func (op *StageOp) Apply(b *PixelBuffer, logWriter io.Writer) (*PixelBuffer, error) {
	if !op.Active { return b, nil }
	start:=time.Now()
	var res *PixelBuffer
	var err error
	switch op.Kind {
	case OpWhiteBalance:
		res, err=WhiteBalance(b, op.Args["amount"])
	case OpHistogramStretch:
		res=HistogramStretch(b, op.Args["low"], op.Args["high"])
	case OpGammaCurve:
		res=GammaCurve(b, op.Args["gamma"])
	case OpLabChannelScale:
		res, err=ScaleLabChannels(b, op.Args["aGain"], op.Args["bGain"])
	case OpSaturationScale:
		res, err=ScaleSaturation(b, op.Args["gain"])
	case OpAdaptiveContrast:
		res=AdaptiveContrast(b, op.Args["clip"], int32(op.Args["grid"]), op.Args["strength"])
	case OpUnsharpMask:
		res=UnsharpMask(b, op.Args["radius"], op.Args["amount"])
	case OpDenoise:
		res=Denoise(b, op.Args["strength"])
	case OpStarReduce:
		res, err=ReduceStars(b, op.Args["amount"], logWriter)
	default:
		return nil, fmt.Errorf("%w: unsupported stage kind %d", ErrInvalidParameter, op.Kind)
	}
	if err!=nil { return nil, err }
	fmt.Fprintf(logWriter, "Applied %s in %v\n", op.Kind, time.Since(start).Round(time.Millisecond))
	return res, nil
}

// One enhancement request moving through the state machine. A failed job
// carries its error and never exposes a partially processed buffer.
type EnhanceJob struct {
	Preset    string
	Intensity float32
	State     EnhanceState
	Err       error
	LogWriter io.Writer
}

func NewEnhanceJob(preset string, intensity float32) *EnhanceJob {
	return &EnhanceJob{Preset:preset, Intensity:intensity, State:StateIdle, LogWriter:LogTarget()}
}

func (j *EnhanceJob) fail(err error) (*PixelBuffer, error) {
	j.State=StateFailed
	j.Err=err
	return nil, err
}

// Run the job on the given buffer. The input is never modified; every
// active stage produces a fresh buffer. Cancellation is checked between
// stages, and a canceled or timed-out job discards all intermediate work.
func (j *EnhanceJob) Run(ctx context.Context, b *PixelBuffer) (*PixelBuffer, error) {
	j.State=StateValidating
	if j.Intensity<0 || j.Intensity>1 {
		return j.fail(fmt.Errorf("%w: intensity %g outside [0,1]", ErrInvalidParameter, j.Intensity))
	}
	preset, err:=GetPreset(j.Preset)
	if err!=nil { return j.fail(err) }
	if err:=b.Validate(); err!=nil { return j.fail(err) }

	j.State=StateExecuting
	cur:=b
	for i:=range preset.Stages {
		if err:=ctxErr(ctx); err!=nil { return j.fail(err) }
		op:=materializeStage(&preset.Stages[i], j.Intensity)
		next, err:=op.Apply(cur, j.LogWriter)
		if err!=nil { return j.fail(err) }
		cur=next
	}
	if err:=ctxErr(ctx); err!=nil { return j.fail(err) }

	if cur==b { cur=b.Clone() }  // all stages inactive, still hand back a fresh buffer
	j.State=StateDone
	return cur, nil
}

// Map context termination onto the module's sentinel errors
func ctxErr(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	default:
		return fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
	}
}

// Apply the named preset to the buffer at the given intensity.
// The convenience wrapper around the job state machine.
func Enhance(ctx context.Context, b *PixelBuffer, preset string, intensity float32) (*PixelBuffer, error) {
	job:=NewEnhanceJob(preset, intensity)
	return job.Run(ctx, b)
}
