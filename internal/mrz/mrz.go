// Package mrz decodes the two-line TD3 Machine-Readable Zone printed on
// a passport bio page out of noisy recognized text. Decoding is
// best-effort: when no MRZ block can be located the decoder reports
// absence and the caller falls back to pattern extraction.
package mrz

import (
	"fmt"
	"regexp"
	"strings"
)

// Data holds the fields decoded from one TD3 MRZ block. It lives only
// for the duration of a single extraction call.
type Data struct {
	PassportNumber string
	BirthDate      string // DD/MM/YYYY
	ExpiryDate     string // DD/MM/YYYY
	Nationality    string
	Sex            string
	LastName       string
	FirstName      string
}

// TD3 lines are 44 characters; OCR drops a few, so anything from
// minLineLen up is accepted.
const minLineLen = 40

var (
	reLine1 = regexp.MustCompile(`^P<[A-Z]{3}`)
	// Document number, optional check digit, nationality, then the
	// birth-date digits. The check digits are optional because OCR
	// sometimes drops them.
	reLine2 = regexp.MustCompile(`^[A-Z0-9<]{9}\d?[A-Z]{3}\d{7}`)
	// Grouped form of the same shape, used for decoding: document
	// number, nationality, birth YYMMDD, sex, expiry YYMMDD. Grouping
	// instead of fixed offsets keeps the fields aligned whether or not
	// the check digits survived recognition.
	reLine2Fields = regexp.MustCompile(`^([A-Z0-9<]{9})\d?([A-Z]{3})(\d{6})\d?([MF<])(\d{6})`)

	reWhitespace = regexp.MustCompile(`\s+`)
	reDigits     = regexp.MustCompile(`^\d{6}$`)
)

// Decode locates and decodes a TD3 MRZ block. It returns nil when the
// two lines cannot be found; that is not an error condition.
func Decode(text string) *Data {
	line1, line2 := locateLines(text)
	if line1 == "" || line2 == "" {
		return nil
	}
	return decodeLines(line1, line2)
}

// locateLines scans for MRZ line 1 by its P<XXX prefix and takes the
// following line as line 2. When OCR has mangled the prefix, it falls
// back to recognizing line 2 by shape and takes the preceding line as
// line 1.
func locateLines(text string) (line1, line2 string) {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = reWhitespace.ReplaceAllString(strings.TrimSpace(ln), "")
		if ln != "" {
			lines = append(lines, ln)
		}
	}

	for i, ln := range lines {
		if reLine1.MatchString(ln) && len(ln) >= minLineLen && i+1 < len(lines) {
			return ln, lines[i+1]
		}
	}
	for i, ln := range lines {
		if reLine2.MatchString(ln) && len(ln) >= minLineLen && i > 0 {
			return lines[i-1], ln
		}
	}
	return "", ""
}

func decodeLines(line1, line2 string) *Data {
	d := &Data{}

	// Line 1: P<XXX prefix (5 chars), then LAST<<FIRST with < as filler.
	if len(line1) > 5 {
		segments := strings.SplitN(line1[5:], "<<", 3)
		d.LastName = cleanFiller(segments[0])
		if len(segments) > 1 {
			d.FirstName = cleanFiller(segments[1])
		}
	}

	if m := reLine2Fields.FindStringSubmatch(line2); m != nil {
		d.PassportNumber = cleanFiller(m[1])
		d.Nationality = cleanFiller(m[2])
		d.BirthDate = convertDate(m[3])
		d.Sex = cleanFiller(m[4])
		d.ExpiryDate = convertDate(m[5])
	}

	return d
}

// cleanFiller replaces < filler with spaces and trims the result.
func cleanFiller(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "<", " "))
}

// convertDate turns an MRZ YYMMDD into DD/MM/YYYY. Two-digit years
// from 50 up belong to the 1900s, the rest to the 2000s, so 49 reads
// as 2049 and 50 as 1950.
func convertDate(raw string) string {
	if !reDigits.MatchString(raw) {
		return ""
	}
	yy := (int(raw[0]-'0') * 10) + int(raw[1]-'0')
	century := 2000
	if yy >= 50 {
		century = 1900
	}
	return fmt.Sprintf("%s/%s/%d", raw[4:6], raw[2:4], century+yy)
}
