package fields

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reNewlines    = regexp.MustCompile(`[\r\n]+`)
	reNameLabels  = regexp.MustCompile(`(?i)\b(?:full\s+)?name\b|الاسم|الإسم`)
	rePunctuation = regexp.MustCompile(`[.:,;|/\\_()\[\]{}«»"'` + "`" + `*#=+~^<>?!-]+`)
	reSpaces      = regexp.MustCompile(`\s+`)

	// Applied only to candidates that carry Arabic script, where short
	// Latin runs and digits are always OCR bleed-through.
	reShortLatin = regexp.MustCompile(`\b[A-Za-z]{1,4}\b`)
	reLatinFrag  = regexp.MustCompile(`[A-Za-z]+\d+[A-Za-z0-9]*`)
	reDigits     = regexp.MustCompile(`\d+`)
)

var reNoiseWords = regexp.MustCompile(`(?i)\b(` + strings.Join(noiseWords, "|") + `)\b`)

// CleanName normalizes a raw name candidate pulled out of recognized
// text. Returns "" when nothing usable survives.
func CleanName(raw string) string {
	s := reNewlines.ReplaceAllString(raw, " ")
	s = reNameLabels.ReplaceAllString(s, " ")
	s = rePunctuation.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if ContainsArabic(s) {
		s = reLatinFrag.ReplaceAllString(s, " ")
		s = reShortLatin.ReplaceAllString(s, " ")
		s = reDigits.ReplaceAllString(s, " ")
	}

	s = reNoiseWords.ReplaceAllString(s, " ")
	s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))

	if utf8.RuneCountInString(s) < 3 {
		return ""
	}
	for _, rejected := range rejectedNames {
		if strings.EqualFold(s, rejected) {
			return ""
		}
	}
	return s
}
