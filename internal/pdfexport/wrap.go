package pdfexport

import (
	"strings"
	"unicode"
)

// Measurer reports the rendered width of a string in the current font.
type Measurer interface {
	StringWidth(s string) float64
}

// WrapText word-wraps text to the given width. Explicit newlines start a new
// line; a word wider than the whole line is broken between runes. Spacing
// between words on the same line is kept, leading and trailing spacing and
// the spacing at a line break are dropped. The result always has at least
// one line.
func WrapText(m Measurer, text string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(m, para, width)...)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func wrapParagraph(m Measurer, para string, width float64) []string {
	words, gaps := splitWords(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for i, word := range words {
		candidate := word
		if current != "" {
			candidate = current + gaps[i] + word
		}
		if m.StringWidth(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if m.StringWidth(word) <= width {
			current = word
			continue
		}
		pieces := breakWord(m, word, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		current = pieces[len(pieces)-1]
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// splitWords returns the words of s and, for each word, the whitespace that
// precedes it. Every whitespace rune in a gap is turned into a plain space.
func splitWords(s string) (words, gaps []string) {
	gap := ""
	for s != "" {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i == 0 {
			j := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
			if j < 0 {
				break
			}
			gap = strings.Repeat(" ", len([]rune(s[:j])))
			s = s[j:]
			continue
		}
		if i < 0 {
			i = len(s)
		}
		words = append(words, s[:i])
		gaps = append(gaps, gap)
		gap = ""
		s = s[i:]
	}
	return words, gaps
}

// breakWord splits a single overlong word into pieces that fit width. Each
// piece holds at least one rune.
func breakWord(m Measurer, word string, width float64) []string {
	var pieces []string
	var piece []rune
	for _, r := range word {
		next := append(piece, r)
		if len(piece) > 0 && m.StringWidth(string(next)) > width {
			pieces = append(pieces, string(piece))
			piece = []rune{r}
			continue
		}
		piece = next
	}
	if len(piece) > 0 {
		pieces = append(pieces, string(piece))
	}
	return pieces
}
