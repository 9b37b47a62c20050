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
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"
)

// JPEG output quality
const jpegQuality = 98

// Supported output container formats
var OutputFormats=[]string{"jpeg", "png", "tiff"}

// Read an image file into a linear [0,1] buffer. The extension selects the
// codec: .fits/.fit/.fts take the FITS path, everything else goes through
// the standard raster decoders. Grayscale sources are replicated to three
// channels so every preset works on any input.
func DecodeImage(r io.Reader, filename string) (*PixelBuffer, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".fits", ".fit", ".fts":
		return readFITS(r)
	}

	img, _, err:=image.Decode(r)
	if err!=nil { return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidParameter, filename, err) }
	return FromImage(img), nil
}

// Convert a decoded raster image into a three-channel buffer
func FromImage(img image.Image) *PixelBuffer {
	bounds:=img.Bounds()
	w, h:=int32(bounds.Dx()), int32(bounds.Dy())
	b:=NewPixelBuffer(w, h, 3)
	rp, gp, bp:=b.Plane(0), b.Plane(1), b.Plane(2)
	i:=0
	for y:=bounds.Min.Y; y<bounds.Max.Y; y++ {
		for x:=bounds.Min.X; x<bounds.Max.X; x++ {
			r, g, bl, _:=img.At(x, y).RGBA()
			rp[i]=float32(r)/65535
			gp[i]=float32(g)/65535
			bp[i]=float32(bl)/65535
			i++
		}
	}
	return b
}

// Render the buffer into an 8-bit RGBA image for encoding
func ToImage(b *PixelBuffer) *image.NRGBA {
	w, h:=int(b.Width), int(b.Height)
	img:=image.NewNRGBA(image.Rect(0, 0, w, h))
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			var r, g, bl float32
			if b.Channels==1 {
				v:=b.At(int32(x), int32(y), 0)
				r, g, bl=v, v, v
			} else {
				r =b.At(int32(x), int32(y), 0)
				g =b.At(int32(x), int32(y), 1)
				bl=b.At(int32(x), int32(y), 2)
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(clampUnit(r )*255 + 0.5),
				G: uint8(clampUnit(g )*255 + 0.5),
				B: uint8(clampUnit(bl)*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}

// Encode the buffer in the named output format
func EncodeImage(w io.Writer, b *PixelBuffer, format string) error {
	if err:=b.Validate(); err!=nil { return err }
	img:=ToImage(b)
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality:jpegQuality})
	case "png":
		return png.Encode(w, img)
	case "tiff", "tif":
		return tiff.Encode(w, img, &tiff.Options{Compression:tiff.Deflate})
	}
	return fmt.Errorf("%w: unsupported output format %q", ErrInvalidParameter, format)
}

// MIME type of a supported output format
func FormatMIME(format string) string {
	switch strings.ToLower(format) {
	case "png":         return "image/png"
	case "tiff", "tif": return "image/tiff"
	}
	return "image/jpeg"
}

const fitsBlockSize = 2880
const fitsCardSize  = 80

// Minimal FITS reader for the common capture formats: BITPIX 8, 16 and
// -32, NAXIS 2 or 3, big-endian data per the standard. Values are
// normalized to [0,1] by the data min and max, matching how capture stacks
// are usually screen-stretched before enhancement.
func readFITS(r io.Reader) (*PixelBuffer, error) {
	bitpix, naxis, err:=readFITSHeader(r)
	if err!=nil { return nil, err }
	if len(naxis)<2 || len(naxis)>3 {
		return nil, fmt.Errorf("%w: FITS with %d axes", ErrInvalidParameter, len(naxis))
	}
	w, h:=naxis[0], naxis[1]
	channels:=int32(1)
	if len(naxis)==3 {
		channels=naxis[2]
		if channels!=1 && channels!=3 {
			return nil, fmt.Errorf("%w: FITS with %d planes", ErrInvalidParameter, channels)
		}
	}
	if w<1 || h<1 {
		return nil, fmt.Errorf("%w: FITS dimensions %dx%d", ErrInvalidParameter, w, h)
	}

	n:=int(w)*int(h)*int(channels)
	samples:=make([]float32, n)
	switch bitpix {
	case 8:
		raw:=make([]byte, n)
		if _, err:=io.ReadFull(r, raw); err!=nil { return nil, err }
		for i, v:=range raw { samples[i]=float32(v) }
	case 16:
		raw:=make([]byte, 2*n)
		if _, err:=io.ReadFull(r, raw); err!=nil { return nil, err }
		for i:=0; i<n; i++ {
			samples[i]=float32(int16(binary.BigEndian.Uint16(raw[2*i:])))
		}
	case -32:
		raw:=make([]byte, 4*n)
		if _, err:=io.ReadFull(r, raw); err!=nil { return nil, err }
		for i:=0; i<n; i++ {
			samples[i]=math.Float32frombits(binary.BigEndian.Uint32(raw[4*i:]))
		}
	default:
		return nil, fmt.Errorf("%w: FITS BITPIX %d", ErrInvalidParameter, bitpix)
	}

	normalizeSamples(samples)
	b:=NewPixelBuffer(w, h, 3)
	if channels==3 {
		copy(b.Data, samples)
	} else {
		copy(b.Plane(0), samples)
		copy(b.Plane(1), samples)
		copy(b.Plane(2), samples)
	}
	return b, nil
}

// Parse header cards up to END, returning BITPIX and the axis lengths
func readFITSHeader(r io.Reader) (bitpix int, naxis []int32, err error) {
	block:=make([]byte, fitsBlockSize)
	axes:=map[int]int32{}
	numAxes:=-1
	bitpix=0
	ended:=false

	for !ended {
		if _, err=io.ReadFull(r, block); err!=nil {
			return 0, nil, fmt.Errorf("%w: truncated FITS header: %v", ErrInvalidParameter, err)
		}
		for off:=0; off<fitsBlockSize; off+=fitsCardSize {
			card:=string(block[off:off+fitsCardSize])
			key:=strings.TrimSpace(card[:8])
			if key=="END" { ended=true; break }
			value:=""
			if len(card)>10 && card[8]=='=' {
				value=strings.TrimSpace(strings.SplitN(card[10:], "/", 2)[0])
			}
			switch {
			case key=="BITPIX":
				bitpix, _=strconv.Atoi(value)
			case key=="NAXIS":
				numAxes, _=strconv.Atoi(value)
			case strings.HasPrefix(key, "NAXIS"):
				idx, e:=strconv.Atoi(key[5:])
				if e!=nil { continue }
				v, _:=strconv.ParseInt(value, 10, 32)
				axes[idx]=int32(v)
			}
		}
	}
	if bitpix==0 || numAxes<0 {
		return 0, nil, fmt.Errorf("%w: FITS header missing BITPIX or NAXIS", ErrInvalidParameter)
	}
	naxis=make([]int32, numAxes)
	for i:=1; i<=numAxes; i++ {
		naxis[i-1]=axes[i]
	}
	return bitpix, naxis, nil
}

// Scale samples to [0,1] by their min and max. Constant data maps to zero.
func normalizeSamples(samples []float32) {
	if len(samples)==0 { return }
	min, max:=samples[0], samples[0]
	for _, v:=range samples {
		if v<min { min=v }
		if v>max { max=v }
	}
	if max<=min {
		for i:=range samples { samples[i]=0 }
		return
	}
	scale:=1/(max-min)
	for i:=range samples {
		samples[i]=(samples[i]-min)*scale
	}
}
