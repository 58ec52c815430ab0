package pdfexport

const (
	// DefaultMargin is the page margin on every side, in millimetres.
	DefaultMargin = 20.0
	// BlockSpacing is the gap left after every block.
	BlockSpacing = 5.0
	// lineHeightFactor converts a font size in points to a line height.
	lineHeightFactor = 0.4
)

// Cursor tracks the vertical position of the next block on the current page.
// A cursor belongs to a single export call.
type Cursor struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	Y          float64
}

// NewCursor returns a cursor positioned at the top margin.
func NewCursor(pageWidth, pageHeight, margin float64) *Cursor {
	return &Cursor{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Margin:     margin,
		Y:          margin,
	}
}

// ContentWidth is the page width minus the left and right margins.
func (c *Cursor) ContentWidth() float64 {
	return c.PageWidth - 2*c.Margin
}

// Bottom is the lowest y a block may reach.
func (c *Cursor) Bottom() float64 {
	return c.PageHeight - c.Margin
}

// Fits reports whether a block of the given height fits below the cursor.
func (c *Cursor) Fits(height float64) bool {
	return c.Y+height <= c.Bottom()
}

// Reset moves the cursor to the top of a fresh page.
func (c *Cursor) Reset() {
	c.Y = c.Margin
}

// Advance moves the cursor past a block of the given height.
func (c *Cursor) Advance(height float64) {
	c.Y += height + BlockSpacing
}

// LineHeight returns the height of one line of text at the given font size.
func LineHeight(fontSize float64) float64 {
	return fontSize * lineHeightFactor
}

// BlockHeight returns the height of a block of lineCount lines.
func BlockHeight(lineCount int, fontSize float64) float64 {
	return float64(lineCount) * LineHeight(fontSize)
}
