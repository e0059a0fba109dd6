// Package fields parses structured identity fields out of noisy
// recognized text. Each extractor tries an ordered list of patterns —
// labelled English, labelled Arabic, then a bare shape anywhere in the
// text — and returns the first hit, or "" when nothing matches. A miss
// never fails the caller's pipeline run.
package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var passportNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)passport\s*no[.:\s]*([A-Z0-9]{5,12})`),
	regexp.MustCompile(`رقم\s*الجواز[.:\s]*([A-Z0-9]{5,12})`),
	regexp.MustCompile(`\b([A-Z]{1,2}\d{7,9})\b`),
}

var visaNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)visa\s*no[.:\s]*(\d{6,12})`),
	regexp.MustCompile(`رقم\s*التأشيرة[.:\s]*(\d{6,12})`),
	regexp.MustCompile(`\b(\d{10,12})\b`),
}

var birthDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)birth\D{0,24}?(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`تاريخ\s*الميلاد\D{0,24}?(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`),
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[0])
	}
	return ""
}

// PassportNumber extracts a passport number from recognized text.
func PassportNumber(text string) string {
	return firstMatch(passportNumberPatterns, text)
}

// VisaNumber extracts a visa number from recognized text.
func VisaNumber(text string) string {
	return firstMatch(visaNumberPatterns, text)
}

// BirthDate extracts a birth date and normalizes it to DD/MM/YYYY.
func BirthDate(text string) string {
	raw := firstMatch(birthDatePatterns, text)
	if raw == "" {
		return ""
	}
	return padDate(raw)
}

// padDate zero-pads single-digit day and month components.
func padDate(raw string) string {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return raw
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return raw
	}
	return fmt.Sprintf("%02d/%02d/%s", day, month, parts[2])
}
