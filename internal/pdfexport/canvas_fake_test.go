package pdfexport

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

type drawnText struct {
	page int
	x, y float64
	size float64
	bold bool
	text string
}

type filledRect struct {
	page       int
	x, y, w, h float64
}

// recordingCanvas is an A4 canvas that records what is drawn on which page.
// Every rune is measured as fontSize*0.2 mm wide.
type recordingCanvas struct {
	width, height float64
	page          int
	size          float64
	bold          bool
	texts         []drawnText
	rects         []filledRect
	lines         int
	outputErr     error
	info          DocumentInfo
	unsupported   string
}

func newRecordingCanvas(info DocumentInfo) *recordingCanvas {
	return &recordingCanvas{width: 210, height: 297, page: 1, size: 12, info: info}
}

func (c *recordingCanvas) PageSize() (float64, float64) { return c.width, c.height }
func (c *recordingCanvas) SetFillColor(r, g, b int)     {}
func (c *recordingCanvas) SetTextColor(r, g, b int)     {}
func (c *recordingCanvas) FillRect(x, y, w, h float64) {
	c.rects = append(c.rects, filledRect{page: c.page, x: x, y: y, w: w, h: h})
}
func (c *recordingCanvas) SetFont(size float64, bold bool) { c.size, c.bold = size, bold }
func (c *recordingCanvas) StringWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * c.size * 0.2
}
func (c *recordingCanvas) Text(x, y float64, s string) {
	c.texts = append(c.texts, drawnText{page: c.page, x: x, y: y, size: c.size, bold: c.bold, text: s})
}
func (c *recordingCanvas) MissingGlyph(s string) (rune, bool) {
	for _, r := range s {
		if strings.ContainsRune(c.unsupported, r) {
			return r, true
		}
	}
	return 0, false
}
func (c *recordingCanvas) Line(x1, y1, x2, y2 float64) { c.lines++ }
func (c *recordingCanvas) AddPage()                    { c.page++ }
func (c *recordingCanvas) Output(w io.Writer) error {
	if c.outputErr != nil {
		return c.outputErr
	}
	for _, t := range c.texts {
		if _, err := io.WriteString(w, t.text+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// all joins every drawn string, one per line.
func (c *recordingCanvas) all() string {
	var sb strings.Builder
	for _, t := range c.texts {
		sb.WriteString(t.text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// containing returns the drawn strings that contain sub.
func (c *recordingCanvas) containing(sub string) []drawnText {
	var out []drawnText
	for _, t := range c.texts {
		if strings.Contains(t.text, sub) {
			out = append(out, t)
		}
	}
	return out
}

// exact returns the drawn strings equal to s.
func (c *recordingCanvas) exact(s string) []drawnText {
	var out []drawnText
	for _, t := range c.texts {
		if t.text == s {
			out = append(out, t)
		}
	}
	return out
}

// recorder hands out recording canvases and remembers them.
type recorder struct {
	canvases    []*recordingCanvas
	outputErr   error
	unsupported string
}

func (r *recorder) factory(info DocumentInfo) Canvas {
	c := newRecordingCanvas(info)
	c.outputErr = r.outputErr
	c.unsupported = r.unsupported
	r.canvases = append(r.canvases, c)
	return c
}

func (r *recorder) last() *recordingCanvas {
	if len(r.canvases) == 0 {
		return nil
	}
	return r.canvases[len(r.canvases)-1]
}

var errDiskFull = errors.New("disk full")

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }
