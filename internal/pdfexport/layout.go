package pdfexport

import "strings"

// textStyle describes how a text block is set.
type textStyle struct {
	size   float64
	bold   bool
	indent float64
}

var (
	styleQuestion    = textStyle{size: 12, bold: true}
	styleOption      = textStyle{size: 11, indent: 5}
	styleAnswer      = textStyle{size: 11, bold: true, indent: 5}
	styleExplanation = textStyle{size: 10, indent: 5}
	styleKeyLine     = textStyle{size: 11}
	styleMeta        = textStyle{size: 11, bold: true}
	styleBody        = textStyle{size: 10}
)

const (
	headerBarHeight = 30.0
	headerTitleSize = 18.0
	headerLabelSize = 10.0
	ruleBlockHeight = 2.0
)

// headerBarColor is the fill of the title band on the first page.
var headerBarColor = [3]int{41, 98, 155}

// layout places blocks on a canvas. A block is placed whole on the current
// page or, when it does not fit, whole on a fresh page.
type layout struct {
	canvas Canvas
	cursor *Cursor
	pages  int
	blocks int
}

func newLayout(c Canvas, margin float64) *layout {
	w, h := c.PageSize()
	return &layout{
		canvas: c,
		cursor: NewCursor(w, h, margin),
		pages:  1,
	}
}

// reserve starts a new page when a block of the given height does not fit
// below the cursor. A block taller than an empty page still gets exactly one
// fresh page.
func (l *layout) reserve(height float64) {
	if l.cursor.Fits(height) {
		return
	}
	if l.cursor.Y == l.cursor.Margin {
		return
	}
	l.canvas.AddPage()
	l.pages++
	l.cursor.Reset()
}

// addText wraps text to the content width and places it as one block.
func (l *layout) addText(text string, st textStyle) {
	l.canvas.SetFont(st.size, st.bold)
	lines := WrapText(l.canvas, text, l.cursor.ContentWidth()-st.indent)
	height := BlockHeight(len(lines), st.size)
	l.reserve(height)

	lh := LineHeight(st.size)
	x := l.cursor.Margin + st.indent
	for i, line := range lines {
		l.canvas.Text(x, l.cursor.Y+float64(i+1)*lh, line)
	}
	l.cursor.Advance(height)
	l.blocks++
}

// addRule draws a horizontal rule across the content width as one block.
func (l *layout) addRule() {
	l.reserve(ruleBlockHeight)
	y := l.cursor.Y + ruleBlockHeight/2
	l.canvas.Line(l.cursor.Margin, y, l.cursor.PageWidth-l.cursor.Margin, y)
	l.cursor.Advance(ruleBlockHeight)
	l.blocks++
}

// headerBand draws the title bar, the two-column label row and a rule at the
// top of the first page, then moves the cursor below it.
func (l *layout) headerBand(title, left, right string) {
	c := l.canvas
	w := l.cursor.PageWidth
	m := l.cursor.Margin

	c.SetFillColor(headerBarColor[0], headerBarColor[1], headerBarColor[2])
	c.FillRect(0, 0, w, headerBarHeight)
	c.SetTextColor(255, 255, 255)
	c.SetFont(headerTitleSize, true)
	c.Text(m, headerBarHeight/2+LineHeight(headerTitleSize)/2, title)
	c.SetTextColor(0, 0, 0)

	rowY := headerBarHeight + 10
	c.SetFont(headerLabelSize, false)
	if left != "" {
		c.Text(m, rowY, left)
	}
	if right != "" {
		c.Text(w-m-c.StringWidth(right), rowY, right)
	}
	ruleY := rowY + 4
	c.Line(m, ruleY, w-m, ruleY)

	l.cursor.Y = ruleY + 6
}

// joinLabels renders "Label: value" pairs, skipping empty values.
func joinLabels(pairs ...[2]string) string {
	var parts []string
	for _, p := range pairs {
		if strings.TrimSpace(p[1]) == "" {
			continue
		}
		parts = append(parts, p[0]+": "+p[1])
	}
	return strings.Join(parts, "   ")
}
