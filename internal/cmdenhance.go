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
	"os"
	"path/filepath"
	"runtime"
	"strings"
)


// Parameters for batch enhancement from the command line
type EnhanceParams struct {
	Preset     string
	Intensity  float32
	Format     string
	OutPattern string
}

func (p *EnhanceParams) String() string {
	return fmt.Sprintf("preset %s intensity %.2f format %s", p.Preset, p.Intensity, p.Format)
}

// Enhance the given files with a preset, writing one output per input
func CmdEnhance(fileNames []string, p *EnhanceParams) {
	if _, err:=GetPreset(p.Preset); err!=nil { LogFatal(err) }

	LogPrintf("\nEnhancing %d files with %s:\n", len(fileNames), p)
	forEachFile(fileNames, p, func(ctx context.Context, buf *PixelBuffer) (*PixelBuffer, error) {
		return Enhance(ctx, buf, p.Preset, p.Intensity)
	})
}

// Render downscaled previews of the given files
func CmdPreview(fileNames []string, p *EnhanceParams, size int32) {
	if _, err:=GetPreset(p.Preset); err!=nil { LogFatal(err) }

	LogPrintf("\nRendering %d previews with %s:\n", len(fileNames), p)
	forEachFile(fileNames, p, func(ctx context.Context, buf *PixelBuffer) (*PixelBuffer, error) {
		return GeneratePreview(ctx, buf, p.Preset, p.Intensity, size)
	})
}

// Detect and reduce stars in the given files
func CmdStarless(fileNames []string, p *EnhanceParams, amount float32) {
	LogPrintf("\nReducing stars in %d files by %.2f:\n", len(fileNames), amount)
	forEachFile(fileNames, p, func(ctx context.Context, buf *PixelBuffer) (*PixelBuffer, error) {
		return ReduceStars(buf, amount, LogTarget())
	})
}

// Decode, process and write each file, running several files in parallel
func forEachFile(fileNames []string, p *EnhanceParams, process func(context.Context, *PixelBuffer) (*PixelBuffer, error)) {
	sem   :=make(chan bool, runtime.NumCPU())
	for id, fileName := range(fileNames) {
		sem <- true
		go func(id int, fileName string) {
			defer func() { <-sem }()
			res, err:=processFile(fileName, process)
			if err!=nil {
				LogPrintf("%d: Error: %s\n", id, err.Error())
				return
			}
			outName:=outputName(p.OutPattern, fileName, id, p.Format)
			if err:=writeFile(outName, res, p.Format); err!=nil {
				LogFatalf("Error writing file: %s\n", err)
			}
			LogPrintf("%d: %s -> %s (%dx%d)\n", id, fileName, outName, res.Width, res.Height)
			res.Data=nil
		}(id, fileName)
	}
	for i:=0; i<cap(sem); i++ {  // wait for goroutines to finish
		sem <- true
	}
}

func processFile(fileName string, process func(context.Context, *PixelBuffer) (*PixelBuffer, error)) (*PixelBuffer, error) {
	f, err:=os.Open(fileName)
	if err!=nil { return nil, err }
	defer f.Close()
	buf, err:=DecodeImage(f, fileName)
	if err!=nil { return nil, err }
	return process(context.Background(), buf)
}

func writeFile(fileName string, buf *PixelBuffer, format string) error {
	f, err:=os.Create(fileName)
	if err!=nil { return err }
	defer f.Close()
	return EncodeImage(f, buf, format)
}

// Derive the output filename. A pattern with %d receives the file index,
// otherwise the input name gets an _enhanced suffix in the output format.
func outputName(pattern, inName string, id int, format string) string {
	if pattern!="" { return fmt.Sprintf(pattern, id) }
	ext:=filepath.Ext(inName)
	base:=strings.TrimSuffix(inName, ext)
	return base+"_enhanced."+format
}
