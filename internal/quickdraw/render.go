package quickdraw

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// drawingExtent is the coordinate range of simplified drawings
const drawingExtent = 256.0

// RenderOptions controls how drawings are rasterized
type RenderOptions struct {
	Size      int     // Output width and height in pixels
	LineWidth float64 // Stroke width in pixels
	Padding   int     // Blank border in pixels
}

// DefaultRenderOptions renders 512x512 images
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Size: 512, LineWidth: 8, Padding: 24}
}

// Render draws d as black strokes on a white square
func Render(d Drawing, opts RenderOptions) *image.RGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultRenderOptions().Size
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}
	if opts.Padding*2 >= opts.Size {
		opts.Padding = 0
	}

	bounds := image.Rect(0, 0, opts.Size, opts.Size)
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)

	scale := float64(opts.Size-2*opts.Padding) / drawingExtent
	offset := float64(opts.Padding)
	half := opts.LineWidth / 2

	z := vector.NewRasterizer(opts.Size, opts.Size)
	for _, stroke := range d.Strokes {
		if len(stroke) < 2 {
			continue
		}
		xs, ys := stroke[0], stroke[1]
		n := min(len(xs), len(ys))

		for i := 0; i < n; i++ {
			x0, y0 := offset+xs[i]*scale, offset+ys[i]*scale
			x1, y1 := x0, y0
			if i+1 < n {
				x1, y1 = offset+xs[i+1]*scale, offset+ys[i+1]*scale
			} else if n > 1 {
				continue
			}
			segment(z, x0, y0, x1, y1, half)
		}
	}

	z.Draw(dst, bounds, image.NewUniform(color.Black), image.Point{})
	return dst
}

// segment adds a thick line with square caps. All quads share one winding
// direction so overlapping strokes add up instead of cancelling.
func segment(z *vector.Rasterizer, x0, y0, x1, y1, half float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)

	var ux, uy float64
	if length == 0 {
		ux, uy = 1, 0 // A dot
	} else {
		ux, uy = dx/length, dy/length
	}

	// Extend both ends by half the width for the caps
	x0, y0 = x0-ux*half, y0-uy*half
	x1, y1 = x1+ux*half, y1+uy*half
	nx, ny := -uy*half, ux*half

	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
}
