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

func TestCalcBasicStats(t *testing.T) {
	s:=CalcBasicStats([]float32{0.2, 0.4, 0.6, 0.8})
	if s.Min!=0.2 { t.Errorf("min %g, want 0.2", s.Min) }
	if s.Max!=0.8 { t.Errorf("max %g, want 0.8", s.Max) }
	if d:=s.Mean-0.5; d>1e-6 || d< -1e-6 { t.Errorf("mean %g, want 0.5", s.Mean) }
	if s.StdDev<=0 { t.Errorf("stddev %g, want positive", s.StdDev) }
}

func TestCalcBasicStatsConstant(t *testing.T) {
	s:=CalcBasicStats([]float32{0.3, 0.3, 0.3})
	if s.StdDev!=0 { t.Errorf("stddev of constant data is %g, want 0", s.StdDev) }
}

func TestCalcPercentileBounds(t *testing.T) {
	data:=[]float32{0.9, 0.1, 0.5, 0.3, 0.7}
	if got:=CalcPercentile(data, 0); got!=0.1 {
		t.Errorf("0th percentile %g, want 0.1", got)
	}
	if got:=CalcPercentile(data, 100); got!=0.9 {
		t.Errorf("100th percentile %g, want 0.9", got)
	}
}

func TestCalcPercentileLeavesInputUnsorted(t *testing.T) {
	data:=[]float32{0.9, 0.1, 0.5}
	CalcPercentile(data, 50)
	if data[0]!=0.9 || data[1]!=0.1 || data[2]!=0.5 {
		t.Error("percentile computation reordered the input")
	}
}

func TestCalcMedian(t *testing.T) {
	if got:=CalcMedian([]float32{0.9, 0.1, 0.5}); got!=0.5 {
		t.Errorf("median %g, want 0.5", got)
	}
}
