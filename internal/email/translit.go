package email

import "strings"

// arabicToLatin is the fixed transliteration table for email-handle
// generation. One entry per Arabic letter; hamza variants follow the
// passport-aware table (إ maps to i, not e).
var arabicToLatin = map[rune]string{
	'ا': "a",
	'أ': "a",
	'إ': "i",
	'آ': "a",
	'ء': "a",
	'ؤ': "o",
	'ئ': "e",
	'ب': "b",
	'ت': "t",
	'ث': "th",
	'ج': "j",
	'ح': "h",
	'خ': "kh",
	'د': "d",
	'ذ': "th",
	'ر': "r",
	'ز': "z",
	'س': "s",
	'ش': "sh",
	'ص': "s",
	'ض': "d",
	'ط': "t",
	'ظ': "z",
	'ع': "a",
	'غ': "gh",
	'ف': "f",
	'ق': "q",
	'ك': "k",
	'ل': "l",
	'م': "m",
	'ن': "n",
	'ه': "h",
	'ة': "h",
	'و': "w",
	'ي': "y",
	'ى': "a",
}

// Transliterate maps Arabic letters to Latin approximations. ASCII
// letters, digits and spaces pass through; everything else is dropped.
func Transliterate(s string) string {
	var b strings.Builder
	for _, r := range s {
		if latin, ok := arabicToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
