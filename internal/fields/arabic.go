package fields

import "unicode"

// arabicRange covers the base Arabic block; visa stamps and passport
// bio pages do not use the presentation-form blocks.
var arabicRange = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0600, Hi: 0x06FF, Stride: 1}},
}

// ContainsArabic reports whether s has at least one Arabic-range rune.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(arabicRange, r) {
			return true
		}
	}
	return false
}

// arabicRatio returns the share of non-space runes that are
// Arabic-range characters.
func arabicRatio(s string) float64 {
	var total, arabic int
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.Is(arabicRange, r) {
			arabic++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(arabic) / float64(total)
}
