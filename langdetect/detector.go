// Package langdetect guesses the natural language of a prompt from distinctive characters.
//
// It is a character-set heuristic, not a language identification model. Loanwords and names
// can produce false positives.
package langdetect

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/rangetable"
)

const DefaultLanguage = "English"

type rule struct {
	language string
	table    *unicode.RangeTable
}

func block(lo, hi rune) *unicode.RangeTable {
	return &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: uint16(lo), Hi: uint16(hi), Stride: 1}},
	}
}

func letters(s string) *unicode.RangeTable {
	return rangetable.New([]rune(s)...)
}

// Order matters: the Latin sets overlap, so the first listed language wins.
var rules = []rule{
	{"German", letters("äöüßÄÖÜẞ")},
	{"French", letters("àâæçéèêëîïôœùûÿÀÂÆÇÉÈÊËÎÏÔŒÙÛŸ")},
	{"Spanish", letters("áíóúñÁÍÓÚÑ¿¡")},
	{"Italian", letters("ìòÌÒ")},
	{"Polish", letters("ąćęłńśźżĄĆĘŁŃŚŹŻ")},
	{"Chinese", block(0x4E00, 0x9FFF)},
	{"Japanese", block(0x3040, 0x30FF)},
	{"Korean", block(0xAC00, 0xD7AF)},
	{"Russian", block(0x0400, 0x04FF)},
}

// Detect returns the first language whose characters appear in text, or DefaultLanguage.
func Detect(text string) string {
	if text == "" {
		return DefaultLanguage
	}
	text = norm.NFC.String(text)
	for _, r := range rules {
		if containsAny(text, r.table) {
			return r.language
		}
	}
	return DefaultLanguage
}

func containsAny(text string, table *unicode.RangeTable) bool {
	for _, c := range text {
		if unicode.Is(table, c) {
			return true
		}
	}
	return false
}
