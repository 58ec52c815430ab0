package pdfexport

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// runeWidth measures one unit per rune.
type runeWidth struct{}

func (runeWidth) StringWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "short", 10, []string{"short"}},
		{"empty", "", 10, []string{""}},
		{"greedy", "hello world foo", 10, []string{"hello", "world foo"}},
		{"exact width", "abcde fghi", 10, []string{"abcde fghi"}},
		{"newlines", "a\nb", 10, []string{"a", "b"}},
		{"blank line kept", "a\n\nb", 10, []string{"a", "", "b"}},
		{"keeps inner spacing", "a    b", 10, []string{"a    b"}},
		{"trims outer spacing", "  a b  ", 10, []string{"a b"}},
		{"tab becomes space", "a\tb", 10, []string{"a b"}},
		{"spacing dropped at break", "hello   world", 10, []string{"hello", "world"}},
		{"label pairs", "A: 1   B: 2", 20, []string{"A: 1   B: 2"}},
		{"overlong word", "abcdefghijklmnopqrstuvwxyz", 10, []string{"abcdefghij", "klmnopqrst", "uvwxyz"}},
		{"overlong after word", "xx abcdefghijkl", 10, []string{"xx", "abcdefghij", "kl"}},
		{"multibyte", "äöü äöü äöü", 7, []string{"äöü äöü", "äöü"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(runeWidth{}, tt.text, tt.width))
		})
	}
}

func TestWrapTextNarrowWidth(t *testing.T) {
	// Every piece holds at least one rune even when nothing fits.
	assert.Equal(t, []string{"a", "b", "c"}, WrapText(runeWidth{}, "abc", 0.5))
}

func TestCursor(t *testing.T) {
	c := NewCursor(210, 297, 20)
	assert.Equal(t, 20.0, c.Y)
	assert.Equal(t, 170.0, c.ContentWidth())
	assert.Equal(t, 277.0, c.Bottom())

	assert.True(t, c.Fits(257))
	assert.False(t, c.Fits(257.01))

	c.Advance(10)
	assert.Equal(t, 35.0, c.Y)
	assert.False(t, c.Fits(243))

	c.Reset()
	assert.Equal(t, 20.0, c.Y)
}

func TestBlockHeight(t *testing.T) {
	assert.InDelta(t, 4.8, LineHeight(12), 1e-9)
	assert.InDelta(t, 9.6, BlockHeight(2, 12), 1e-9)
	assert.Zero(t, BlockHeight(0, 12))
}
