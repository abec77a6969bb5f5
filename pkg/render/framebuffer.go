// Package render turns a camera and a scene into pixels: ray generation,
// the path-tracing integrator, the parallel render loop, and the image and
// terminal sinks for the result.
package render

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Framebuffer is a row-major RGBA image, 4 bytes per pixel, safe for
// concurrent readers while rows are being written.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []byte

	mu sync.RWMutex
}

// NewFramebuffer creates a framebuffer with every pixel transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, 4*width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i := 0; i < len(fb.Pix); i += 4 {
		fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2], fb.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Out-of-bounds coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := 4 * (y*fb.Width + x)
	fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2], fb.Pix[i+3] = c.R, c.G, c.B, c.A
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.pixel(x, y)
}

func (fb *Framebuffer) pixel(x, y int) color.RGBA {
	i := 4 * (y*fb.Width + x)
	return color.RGBA{fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2], fb.Pix[i+3]}
}

// SetRow publishes a complete row of 4*Width bytes in one locked copy.
func (fb *Framebuffer) SetRow(y int, row []byte) {
	if y < 0 || y >= fb.Height || len(row) != 4*fb.Width {
		panic(fmt.Sprintf("render: SetRow(%d) with %d bytes on %dx%d framebuffer", y, len(row), fb.Width, fb.Height))
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	copy(fb.Pix[4*y*fb.Width:], row)
}

// Snapshot returns a copy of the pixel data.
func (fb *Framebuffer) Snapshot() []byte {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	out := make([]byte, len(fb.Pix))
	copy(out, fb.Pix)
	return out
}

// Resample returns a nearest-neighbour scaled copy of size width x height.
func (fb *Framebuffer) Resample(width, height int) *Framebuffer {
	out := NewFramebuffer(width, height)
	if fb.Width == 0 || fb.Height == 0 {
		return out
	}

	fb.mu.RLock()
	defer fb.mu.RUnlock()
	for y := range height {
		sy := y * fb.Height / height
		for x := range width {
			sx := x * fb.Width / width
			src := 4 * (sy*fb.Width + sx)
			dst := 4 * (y*width + x)
			copy(out.Pix[dst:dst+4], fb.Pix[src:src+4])
		}
	}
	return out
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	copy(img.Pix, fb.Pix)
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// SaveImage writes a PNG or JPEG file chosen by the path's extension.
// A .ppm extension writes the plain-text format.
func (fb *Framebuffer) SaveImage(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return fb.SavePNG(path)
	case ".jpg", ".jpeg":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return jpeg.Encode(f, fb.ToImage(), &jpeg.Options{Quality: 95})
	case ".ppm":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return fb.WritePPM(f)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}

// WritePPMHeader writes the plain PPM (P3) header for a width x height
// image.
func WritePPMHeader(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "P3\n%d %d\n255\n", width, height)
	return err
}

// WritePPM writes the framebuffer as a plain PPM (P3) image, one
// "r g b" triple per line. Alpha is dropped.
func (fb *Framebuffer) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := WritePPMHeader(bw, fb.Width, fb.Height); err != nil {
		return err
	}

	fb.mu.RLock()
	defer fb.mu.RUnlock()
	for i := 0; i < len(fb.Pix); i += 4 {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
