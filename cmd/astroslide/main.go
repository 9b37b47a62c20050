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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	nl "github.com/hoxca/astroslide/internal"
)

const version = "0.1.0"

var port       = flag.Int   ("port",      8080,      "port for serve command")
var preset     = flag.String("preset",    "general", "enhancement preset name")
var intensity  = flag.Float64("intensity", 1.0,      "preset intensity in [0,1]")
var format     = flag.String("format",    "jpeg",    "output format (jpeg|png|tiff)")
var out        = flag.String("out",       "",        "output filename pattern with %d, defaults to <input>_enhanced.<format>")
var size       = flag.Int   ("size",      nl.DefaultPreviewSize, "preview size bound for the longer edge")
var amount     = flag.Float64("amount",   0.8,       "star reduction amount in [0,1] for starless command")

func main() {
	flag.Usage=func() {
		fmt.Fprintf(os.Stderr, `astroslide %s, preset-driven astrophotography enhancement

Usage: astroslide [flags] command [files]

Commands:
  serve      start the HTTP API and web frontend
  enhance    apply a preset to the given files
  preview    render downscaled preset previews
  starless   detect and reduce stars
  stats      print statistics and histogram peaks
  presets    list available presets
  version    show program version

Flags:
`, version)
		flag.PrintDefaults()
	}
	flag.Parse()

	args:=flag.Args()
	if len(args)<1 {
		flag.Usage()
		os.Exit(2)
	}
	cmd, args:=args[0], args[1:]
	fileNames:=nl.GlobFilenameWildcards(args)

	p:=&nl.EnhanceParams{
		Preset    : *preset,
		Intensity : float32(*intensity),
		Format    : *format,
		OutPattern: *out,
	}

	switch strings.ToLower(cmd) {
	case "serve":
		nl.CmdServe(*port)
	case "enhance":
		requireFiles(fileNames)
		nl.CmdEnhance(fileNames, p)
	case "preview":
		requireFiles(fileNames)
		nl.CmdPreview(fileNames, p, int32(*size))
	case "starless":
		requireFiles(fileNames)
		nl.CmdStarless(fileNames, p, float32(*amount))
	case "stats":
		requireFiles(fileNames)
		nl.CmdStats(fileNames)
	case "presets":
		for _, def:=range nl.ListPresets() {
			fmt.Printf("%-22s %s\n", def.Name, def.Description)
		}
	case "version":
		fmt.Printf("astroslide %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
}

func requireFiles(fileNames []string) {
	if len(fileNames)==0 {
		fmt.Fprintln(os.Stderr, "No input files given")
		os.Exit(2)
	}
}
