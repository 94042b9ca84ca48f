package atp

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningDiaeresis is U+0308, the mark that an umlaut decomposes into.
const combiningDiaeresis = '\u0308'

// FoldUmlauts strips the diaeresis from every letter (Ä→A, ö→o, ü→u, ...),
// so that umlauting plurals such as Apfel → Äpfel count as zero-suffix forms.
// Both precomposed and decomposed input are handled; the result is NFC.
func FoldUmlauts(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.Predicate(func(r rune) bool { return r == combiningDiaeresis })),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
