package pdfexport

import (
	"embed"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"
)

// Canvas is the drawing surface the layout engine writes to. Coordinates are
// in millimetres with the origin at the top-left corner of the current page.
type Canvas interface {
	PageSize() (width, height float64)
	SetFillColor(r, g, b int)
	FillRect(x, y, w, h float64)
	SetTextColor(r, g, b int)
	SetFont(size float64, bold bool)
	// StringWidth measures s in the current font.
	StringWidth(s string) float64
	Text(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	AddPage()
	Output(w io.Writer) error
}

// DocumentInfo is the metadata stamped into a new document.
type DocumentInfo struct {
	Title   string
	Subject string
	Created time.Time
}

// CanvasFactory creates a fresh canvas with its first page already added.
type CanvasFactory func(info DocumentInfo) Canvas

// GlyphChecker is implemented by canvases whose fonts cover only part of
// Unicode. MissingGlyph returns the first rune of s the fonts cannot draw.
type GlyphChecker interface {
	MissingGlyph(s string) (rune, bool)
}

const (
	fontFamily      = "DejaVu"
	fontRegularFile = "fonts/DejaVuSansCondensed.ttf"
	fontBoldFile    = "fonts/DejaVuSansCondensed-Bold.ttf"
)

//go:embed fonts/*.ttf
var fontFiles embed.FS

var (
	facesOnce sync.Once
	faces     []*sfnt.Font
	facesErr  error
)

// glyphFaces parses the embedded fonts once for glyph lookups.
func glyphFaces() ([]*sfnt.Font, error) {
	facesOnce.Do(func() {
		for _, name := range []string{fontRegularFile, fontBoldFile} {
			data, err := fontFiles.ReadFile(name)
			if err != nil {
				facesErr = err
				return
			}
			face, err := sfnt.Parse(data)
			if err != nil {
				facesErr = fmt.Errorf("parse %s: %w", name, err)
				return
			}
			faces = append(faces, face)
		}
	})
	return faces, facesErr
}

type fpdfCanvas struct {
	pdf   *fpdf.Fpdf
	faces []*sfnt.Font
}

// NewFPDFCanvas returns an A4 portrait canvas backed by fpdf, set in an
// embedded DejaVu Sans face that covers Latin, Greek and Cyrillic text. The
// creation date is taken from info so identical input renders identical bytes.
func NewFPDFCanvas(info DocumentInfo) Canvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	c := &fpdfCanvas{pdf: pdf}
	if err := c.addFonts(); err != nil {
		pdf.SetError(err)
		return c
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(info.Created)
	pdf.SetModificationDate(info.Created)
	pdf.SetCreator("exampaper", false)
	if info.Title != "" {
		pdf.SetTitle(info.Title, true)
	}
	if info.Subject != "" {
		pdf.SetSubject(info.Subject, true)
	}
	pdf.SetFont(fontFamily, "", 12)
	pdf.AddPage()
	return c
}

// addFonts registers the embedded faces. Each document gets its own copy of
// the font bytes.
func (c *fpdfCanvas) addFonts() error {
	var err error
	if c.faces, err = glyphFaces(); err != nil {
		return err
	}
	for _, f := range []struct{ style, name string }{
		{"", fontRegularFile},
		{"B", fontBoldFile},
	} {
		data, err := fontFiles.ReadFile(f.name)
		if err != nil {
			return err
		}
		c.pdf.AddUTF8FontFromBytes(fontFamily, f.style, data)
	}
	return c.pdf.Error()
}

// MissingGlyph reports the first rune of s that the regular or bold face has
// no glyph for. Whitespace is always accepted.
func (c *fpdfCanvas) MissingGlyph(s string) (rune, bool) {
	var buf sfnt.Buffer
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		for _, face := range c.faces {
			idx, err := face.GlyphIndex(&buf, r)
			if err != nil || idx == 0 {
				return r, true
			}
		}
	}
	return 0, false
}

func (c *fpdfCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *fpdfCanvas) SetFillColor(r, g, b int) {
	c.pdf.SetFillColor(r, g, b)
}

func (c *fpdfCanvas) FillRect(x, y, w, h float64) {
	c.pdf.Rect(x, y, w, h, "F")
}

func (c *fpdfCanvas) SetTextColor(r, g, b int) {
	c.pdf.SetTextColor(r, g, b)
}

func (c *fpdfCanvas) SetFont(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *fpdfCanvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(s)
}

func (c *fpdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, s)
}

func (c *fpdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *fpdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *fpdfCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
