package viz

import (
	"math"
	"strings"

	"github.com/san-kum/mechsim/internal/experiment"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells addressed in sub-pixels, top-left
// origin. Its resolution is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). Points off the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport adapts a Canvas to the y-up pixel coordinates entities draw in.
// Pixel (0, 0) lands on the sub-pixel (OffsetX, OffsetY) and y grows
// upwards.
type Viewport struct {
	Canvas           *Canvas
	OffsetX, OffsetY int
	Scale            float64
}

// Fit returns the viewport showing the whole of view, centred, with equal
// scale on both axes.
func Fit(c *Canvas, view experiment.View) *Viewport {
	w, h := float64(c.Width*2), float64(c.Height*4)
	spanX := view.Max.X() - view.Min.X()
	spanY := view.Max.Y() - view.Min.Y()
	scale := 1.0
	if spanX > 0 && spanY > 0 {
		scale = math.Min((w-1)/spanX, (h-1)/spanY)
	}
	padX := (w - 1 - spanX*scale) / 2
	padY := (h - 1 - spanY*scale) / 2
	return &Viewport{
		Canvas:  c,
		OffsetX: int(math.Round(padX - view.Min.X()*scale)),
		OffsetY: int(math.Round(h - 1 - padY + view.Min.Y()*scale)),
		Scale:   scale,
	}
}

func (v *Viewport) Plot(x, y int) {
	v.Canvas.Set(v.OffsetX+x, v.OffsetY-y)
}

func (v *Viewport) Line(x0, y0, x1, y1 int) {
	v.Canvas.DrawLine(v.OffsetX+x0, v.OffsetY-y0, v.OffsetX+x1, v.OffsetY-y1)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
