// Package textclean tidies inbound chat text before it is stored and folds labels into grouping keys
package textclean

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// controls we never store: C0 except tab and line breaks, DEL, C1
var dropControl = runes.Predicate(func(r rune) bool {
	switch {
	case r == '\n' || r == '\r' || r == '\t':
		return false
	case r < 0x20 || r == 0x7f:
		return true
	case r >= 0x80 && r <= 0x9f:
		return true
	}
	return false
})

var cleanPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(dropControl),
			runes.Remove(runes.In(unicode.Cf)),
		)
	},
}

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			cases.Fold(),
			width.Fold,
			norm.NFC,
		)
	},
}

func apply(p *sync.Pool, s string) string {
	tr := p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Clean drops invalid bytes and invisible format runes, composes to NFC and squeezes
// runs of blanks into one space while keeping single line breaks
// the visible text is otherwise untouched so amounts and currency marks survive
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	return squeeze(apply(&cleanPool, s))
}

// IsBlank reports whether s has nothing left after Clean
func IsBlank(s string) bool { return Clean(s) == "" }

// Fold returns a comparison key: diacritics stripped, case folded, width folded, single spaced
// "  Káva " and "KAVA" share the key "kava"
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	return strings.Join(strings.Fields(apply(&foldPool, s)), " ")
}

func squeeze(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := byte(0)
	for _, r := range s {
		if unicode.IsSpace(r) {
			if r == '\n' {
				pending = '\n'
			} else if pending == 0 {
				pending = ' '
			}
			continue
		}
		if pending != 0 && b.Len() > 0 {
			b.WriteByte(pending)
		}
		pending = 0
		b.WriteRune(r)
	}
	return b.String()
}
