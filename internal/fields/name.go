package fields

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxNameLen bounds accepted line-scan candidates; anything longer is
// a sentence the OCR glued together, not a name.
const maxNameLen = 50

var (
	// Anchored span: everything between a name label and the next
	// known field label.
	reNameSpan = regexp.MustCompile(`(?is)(?:name|الاسم|الإسم)[.:\s]+(.+?)(?:` + strings.Join(nameStopLabels, "|") + `)`)

	// Single-line fallbacks when no stop label follows the span.
	nameLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)name[.:\s]+([^\n]+)`),
		regexp.MustCompile(`(?:الاسم|الإسم)[.:\s]+([^\n]+)`),
	}
)

// FullName extracts the client's full name from recognized text.
//
// Strategy 1 captures the span between a name label and the next field
// label and cleans it. When that yields nothing usable — empty, too
// short, or no Arabic script — strategy 2 scans the text line by line
// for the first plausible Arabic name.
func FullName(text string) string {
	name := anchoredName(text)

	if name == "" || utf8.RuneCountInString(name) < 3 || !ContainsArabic(name) {
		if scanned := scanArabicName(text, visaHeaderWords, 0); scanned != "" {
			return scanned
		}
	}
	return name
}

// ArabicBioName runs the passport bio-page extractor: the same line
// scan restricted to passport header labels, with the extra demand that
// at least 70% of a candidate's non-space characters are Arabic.
func ArabicBioName(text string) string {
	return scanArabicName(text, passportHeaderWords, 0.7)
}

func anchoredName(text string) string {
	if m := reNameSpan.FindStringSubmatch(text); m != nil {
		if cleaned := CleanName(m[1]); cleaned != "" {
			return cleaned
		}
	}
	for _, re := range nameLinePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if cleaned := CleanName(m[1]); cleaned != "" {
				return cleaned
			}
		}
	}
	return ""
}

// scanArabicName walks the text line by line and returns the first
// cleaned candidate with at least two tokens, a plausible length, and
// at least minArabicRatio Arabic-range characters. Lines without
// Arabic script and lines matching the header table are skipped.
func scanArabicName(text string, headerWords []string, minArabicRatio float64) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !ContainsArabic(line) {
			continue
		}
		if matchesHeader(line, headerWords) {
			continue
		}
		cleaned := CleanName(line)
		if cleaned == "" {
			continue
		}
		if len(strings.Fields(cleaned)) < 2 || utf8.RuneCountInString(cleaned) >= maxNameLen {
			continue
		}
		if minArabicRatio > 0 && arabicRatio(cleaned) < minArabicRatio {
			continue
		}
		return cleaned
	}
	return ""
}

func matchesHeader(line string, headerWords []string) bool {
	lower := strings.ToLower(line)
	for _, w := range headerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
