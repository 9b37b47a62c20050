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
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/contrib/static"
	"github.com/gin-gonic/gin"
)

// Upload size limit
const maxUploadBytes = 50<<20

// Per-request processing deadline
const requestTimeout = 120*time.Second

// Serve static web content and API endpoints via HTTP
func CmdServe(port int) {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = maxUploadBytes

	pool:=NewPool(0, 0)

 	// Serve frontend static files
  	r.Use(static.Serve("/", static.LocalFile("./web/build", true)))

	r.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.GET("/api/presets", func(c *gin.Context) {
		presets:=[]gin.H{}
		for _, p:=range ListPresets() {
			presets=append(presets, gin.H{
				"id":          p.Name,
				"name":        p.Name,
				"description": p.Description,
				"best_for":    p.BestFor,
			})
		}
		c.JSON(200, gin.H{"presets": presets})
	})

	r.GET("/api/output-formats", func(c *gin.Context) {
		formats:=[]gin.H{}
		for _, f:=range OutputFormats {
			formats=append(formats, gin.H{
				"id":        f,
				"mime_type": FormatMIME(f),
			})
		}
		c.JSON(200, gin.H{"formats": formats})
	})

	r.POST("/api/enhance", func(c *gin.Context) {
		handleEnhance(c, pool, false)
	})

	r.POST("/api/preview", func(c *gin.Context) {
		handleEnhance(c, pool, true)
	})

	r.POST("/api/starless", func(c *gin.Context) {
		buf, format, ok:=loadUpload(c)
		if !ok { return }
		amount:=formFloat(c, "amount", starlessReduceAmount)
		res, err:=submit(c, pool, buf, func(ctx context.Context) (*PixelBuffer, error) {
			return ReduceStars(buf, amount, LogTarget())
		})
		if err!=nil { return }
		replyImage(c, res, format, gin.H{"amount": amount})
	})

	r.POST("/api/histogram", func(c *gin.Context) {
		buf, _, ok:=loadUpload(c)
		if !ok { return }
		hist, err:=ComputeHistogram(buf)
		if err!=nil {
			c.JSON(statusFor(err), gin.H{"detail": err.Error()})
			return
		}
		c.JSON(200, gin.H{
			"success":   true,
			"histogram": hist,
			"width":     buf.Width,
			"height":    buf.Height,
		})
	})

	LogPrintf("Serving on :%d\n", port)
	r.Run(fmt.Sprintf(":%d", port)) // listen and serve on 0.0.0.0:port (for windows "localhost:port")
}

// Shared handler for full enhancement and preview rendering
func handleEnhance(c *gin.Context, pool *Pool, preview bool) {
	buf, format, ok:=loadUpload(c)
	if !ok { return }

	preset:=c.DefaultPostForm("preset", "general")
	intensity:=formFloat(c, "intensity", 1)

	res, err:=submit(c, pool, buf, func(ctx context.Context) (*PixelBuffer, error) {
		if preview {
			size:=int32(formFloat(c, "size", DefaultPreviewSize))
			return GeneratePreview(ctx, buf, preset, intensity, size)
		}
		return Enhance(ctx, buf, preset, intensity)
	})
	if err!=nil { return }

	replyImage(c, res, format, gin.H{
		"preset_used": preset,
		"intensity":   intensity,
	})
}

// Decode the uploaded file and the requested output format. Writes the
// error response itself and returns ok=false on failure.
func loadUpload(c *gin.Context) (buf *PixelBuffer, format string, ok bool) {
	fileHeader, err:=c.FormFile("file")
	if err!=nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing file upload"})
		return nil, "", false
	}
	if fileHeader.Size>maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"detail": fmt.Sprintf("file too large, maximum size is %dMB", maxUploadBytes>>20),
		})
		return nil, "", false
	}
	f, err:=fileHeader.Open()
	if err!=nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return nil, "", false
	}
	defer f.Close()

	buf, err=DecodeImage(f, fileHeader.Filename)
	if err!=nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return nil, "", false
	}
	return buf, c.DefaultPostForm("output_format", "jpeg"), true
}

// Run the task on the pool under the request deadline, translating pool
// and pipeline errors into HTTP responses
func submit(c *gin.Context, pool *Pool, buf *PixelBuffer, task Task) (*PixelBuffer, error) {
	ctx, cancel:=context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	res, err:=pool.Submit(ctx, int64(buf.Pixels()), task)
	if err!=nil {
		c.JSON(statusFor(err), gin.H{"detail": err.Error()})
		return nil, err
	}
	return res, nil
}

// Encode the result and answer with a base64 data URL plus the given
// extra fields
func replyImage(c *gin.Context, res *PixelBuffer, format string, extra gin.H) {
	var out bytes.Buffer
	if err:=EncodeImage(&out, res, format); err!=nil {
		c.JSON(statusFor(err), gin.H{"detail": err.Error()})
		return
	}
	body:=gin.H{
		"success": true,
		"enhanced_image": fmt.Sprintf("data:%s;base64,%s",
			FormatMIME(format), base64.StdEncoding.EncodeToString(out.Bytes())),
		"width":  res.Width,
		"height": res.Height,
	}
	for k, v:=range extra { body[k]=v }
	c.JSON(200, body)
}

func formFloat(c *gin.Context, name string, def float32) float32 {
	s:=c.PostForm(name)
	if s=="" { return def }
	v, err:=strconv.ParseFloat(s, 32)
	if err!=nil { return def }
	return float32(v)
}

// HTTP status for a pipeline error
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidParameter), errors.Is(err, ErrDegenerateInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrCapacityExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrCanceled):
		return 499 // client closed request
	}
	return http.StatusInternalServerError
}
