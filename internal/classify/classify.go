// Package classify decides whether recognized document text came from a
// visa stamp or a passport bio page. Classification is a pure function
// of the text and always returns a value; when no signal is present the
// document is treated as a visa.
package classify

import (
	"regexp"
	"strings"

	"github.com/comfythings/visaflow/constants"
)

var (
	// MRZ-shaped runs are the strongest passport signal: either the
	// TD3 "P<XXX" document prefix or a contiguous number+country+date
	// block from MRZ line 2.
	reMRZPrefix = regexp.MustCompile(`P<[A-Z]{3}`)
	reMRZLine2  = regexp.MustCompile(`[A-Z0-9<]{9}[A-Z]{3}\d{7}`)
)

var passportKeywords = []string{
	"passport",
	"passeport",
	"جواز سفر",
	"royaume",
	"kingdom",
}

var visaKeywords = []string{
	"visa",
	"تأشيرة",
	"entry",
	"umrah",
	"hajj",
}

// Detect returns the document type for a block of recognized text.
func Detect(text string) constants.DocumentType {
	if reMRZPrefix.MatchString(text) || reMRZLine2.MatchString(text) {
		return constants.DocumentPassport
	}

	lower := strings.ToLower(text)
	for _, kw := range passportKeywords {
		if strings.Contains(lower, kw) {
			return constants.DocumentPassport
		}
	}
	for _, kw := range visaKeywords {
		if strings.Contains(lower, kw) {
			return constants.DocumentVisa
		}
	}
	return constants.DocumentVisa
}
