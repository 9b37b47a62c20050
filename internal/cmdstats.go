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
	"os"
	"runtime"
)


// Print statistics and luminance histogram peaks for the given files
func CmdStats(fileNames []string) {
	LogPrintf("\nAnalyzing %d files:\n", len(fileNames))

	sem   :=make(chan bool, runtime.NumCPU())
	for id, fileName := range(fileNames) {
		sem <- true
		go func(id int, fileName string) {
			defer func() { <-sem }()
			f, err:=os.Open(fileName)
			if err!=nil {
				LogPrintf("%d: Error: %s\n", id, err.Error())
				return
			}
			defer f.Close()
			buf, err:=DecodeImage(f, fileName)
			if err!=nil {
				LogPrintf("%d: Error: %s\n", id, err.Error())
				return
			}
			hist, err:=ComputeHistogram(buf)
			if err!=nil {
				LogPrintf("%d: Error: %s\n", id, err.Error())
				return
			}
			LogPrintf("%d: %s %dx%d %s peak bin %d\n",
				id, fileName, buf.Width, buf.Height, hist.Stats, peakBin(hist.Luminance))
			buf.Data=nil
		}(id, fileName)
	}
	for i:=0; i<cap(sem); i++ {  // wait for goroutines to finish
		sem <- true
	}
}

// Index of the fullest histogram bin
func peakBin(counts []uint32) int {
	peak:=0
	for i, c:=range counts {
		if c>counts[peak] { peak=i }
	}
	return peak
}
