package physics

import (
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

func pixel(p vec.Vector, scale float64) (int, int) {
	return int(math.Round(p.X() * scale)), int(math.Round(p.Y() * scale))
}

func drawLine(c dynamo.Canvas, a, b vec.Vector, scale float64) {
	x0, y0 := pixel(a, scale)
	x1, y1 := pixel(b, scale)
	c.Line(x0, y0, x1, y1)
}

// drawMark draws a small cross centred on p.
func drawMark(c dynamo.Canvas, p vec.Vector, scale float64) {
	x, y := pixel(p, scale)
	c.Plot(x, y)
	c.Plot(x-1, y)
	c.Plot(x+1, y)
	c.Plot(x, y-1)
	c.Plot(x, y+1)
}
