package extract

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/textnorm"
)

// document pairs the submitted text with its folded form. Patterns run on
// the folded text; payload text is cut from the original runes so that
// values keep their full-width punctuation.
type document struct {
	raw    []rune
	text   string
	starts []int // byte offset in text of each rune
}

func newDocument(s string) *document {
	folded := textnorm.Fold(s)
	starts := make([]int, 0, utf8.RuneCountInString(folded))
	for i := range folded {
		starts = append(starts, i)
	}
	return &document{
		raw:    []rune(s),
		text:   folded,
		starts: starts,
	}
}

// runeAt converts a byte offset in the folded text to a rune offset.
func (d *document) runeAt(b int) int {
	return sort.SearchInts(d.starts, b)
}

func (d *document) span(b0, b1 int) *model.Span {
	return &model.Span{Start: d.runeAt(b0), End: d.runeAt(b1)}
}

// original returns the submitted text covered by a rune span.
func (d *document) original(sp *model.Span) string {
	if sp == nil || sp.Start < 0 || sp.End > len(d.raw) || sp.Start >= sp.End {
		return ""
	}
	return string(d.raw[sp.Start:sp.End])
}

// before returns up to n runes of folded text ending at byte offset b,
// cut after the last clause boundary.
func (d *document) before(b, n int, boundaries string) string {
	r := d.runeAt(b)
	start := r - n
	if start < 0 {
		start = 0
	}
	w := d.text[d.starts[start]:b]
	if i := strings.LastIndexAny(w, boundaries); i >= 0 {
		_, size := utf8.DecodeRuneInString(w[i:])
		w = w[i+size:]
	}
	return w
}

// after returns up to n runes of folded text starting at byte offset b,
// cut at the first clause boundary.
func (d *document) after(b, n int, boundaries string) string {
	r := d.runeAt(b)
	end := r + n
	var w string
	if end >= len(d.starts) {
		w = d.text[b:]
	} else {
		w = d.text[b:d.starts[end]]
	}
	if i := strings.IndexAny(w, boundaries); i >= 0 {
		w = w[:i]
	}
	return w
}

// sentence is a rune-offset slice of the document.
type sentence struct {
	text string // folded
	span model.Span
}

// splitSentences splits folded text on Chinese sentence terminators and line
// breaks, keeping sentences whose length falls within [minRunes, maxRunes].
func (d *document) splitSentences(minRunes, maxRunes int) []sentence {
	var out []sentence
	start := 0
	flush := func(end int) {
		for start < end && isSpaceRune(d.raw[start]) {
			start++
		}
		n := end - start
		if n >= minRunes && n <= maxRunes {
			b0 := d.starts[start]
			b1 := len(d.text)
			if end < len(d.starts) {
				b1 = d.starts[end]
			}
			out = append(out, sentence{
				text: strings.TrimSpace(d.text[b0:b1]),
				span: model.Span{Start: start, End: end},
			})
		}
		start = end
	}

	for i, b := range d.starts {
		r, _ := utf8.DecodeRuneInString(d.text[b:])
		switch r {
		case '。', '!', '?', '\n':
			end := i
			if r != '\n' {
				end = i + 1
			}
			flush(end)
			if r == '\n' {
				start = i + 1
			}
		}
	}
	flush(len(d.starts))
	return out
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '　'
}
