package domain

import "fmt"

type Geometry struct {
	Cols int
	Rows int
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Cols, g.Rows)
}

// Extent is the size of the container a view is laid out in, in the same
// units as the view's GlyphMetrics.
type Extent struct {
	Width  float64
	Height float64
}

type GlyphMetrics struct {
	CellWidth  float64
	CellHeight float64
}

// Fit returns the largest whole grid of cells that fits in the extent.
func Fit(extent Extent, metrics GlyphMetrics) (Geometry, error) {
	if extent.Width <= 0 || extent.Height <= 0 {
		return Geometry{}, fmt.Errorf("container has no extent (%gx%g)", extent.Width, extent.Height)
	}
	if metrics.CellWidth <= 0 || metrics.CellHeight <= 0 {
		return Geometry{}, fmt.Errorf("glyph metrics unavailable (%gx%g)", metrics.CellWidth, metrics.CellHeight)
	}

	g := Geometry{
		Cols: int(extent.Width / metrics.CellWidth),
		Rows: int(extent.Height / metrics.CellHeight),
	}
	if g.Cols < 1 || g.Rows < 1 {
		return Geometry{}, fmt.Errorf("container smaller than one cell (%s)", g)
	}

	return g, nil
}
