// Package email deterministically derives a contact-handle address
// from an extracted client name. The visa and passport paths order the
// handle differently on purpose (first+last3 vs last+first3); callers
// must pick the path matching the document type.
package email

import (
	"regexp"
	"strings"

	"github.com/comfythings/visaflow/constants"
	"github.com/comfythings/visaflow/internal/fields"
)

// labelWords disqualify a capitalized two-word match whose first word
// is a field label rather than a name.
var labelWords = []string{
	"Name",
	"Passport",
	"Visa",
	"Birth",
	"Date",
	"Place",
	"Type",
	"Code",
	"Sex",
	"Nationality",
	"Saudi",
	"Digital",
	"Ministry",
	"Umrah",
	"Hajj",
	"Kingdom",
}

var reCapitalizedPair = regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b`)

var reNonLetter = regexp.MustCompile(`[^a-z]+`)

// ForVisa derives the address for a visa-classified document from the
// extracted name, falling back to a capitalized English pair in the
// raw text. Returns "" when no handle can be built.
func ForVisa(text, name string) string {
	if name != "" && fields.ContainsArabic(name) {
		tokens := strings.Fields(Transliterate(name))
		switch {
		case len(tokens) >= 2:
			return address(tokens[0] + first3(tokens[1]))
		case len(tokens) == 1:
			return address(tokens[0])
		}
	}

	for _, m := range reCapitalizedPair.FindAllStringSubmatch(text, -1) {
		if isLabelWord(m[1]) {
			continue
		}
		return address(m[1] + first3(m[2]))
	}
	return ""
}

// ForPassport derives the address from MRZ name fields; when they are
// absent it falls back to transliterating the resolved name with the
// roles reversed (last token is the surname).
func ForPassport(mrzLastName, mrzFirstName, name string) string {
	if mrzLastName != "" && mrzFirstName != "" {
		last := strings.ReplaceAll(strings.ToLower(mrzLastName), " ", "")
		return address(last + first3(strings.ToLower(mrzFirstName)))
	}

	tokens := strings.Fields(Transliterate(name))
	switch {
	case len(tokens) >= 2:
		return address(tokens[len(tokens)-1] + first3(tokens[0]))
	case len(tokens) == 1:
		return address(tokens[0])
	}
	return ""
}

func address(prefix string) string {
	prefix = reNonLetter.ReplaceAllString(strings.ToLower(prefix), "")
	if prefix == "" {
		return ""
	}
	return prefix + "@" + constants.EmailDomain
}

func first3(s string) string {
	if len(s) <= 3 {
		return s
	}
	return s[:3]
}

func isLabelWord(w string) bool {
	for _, label := range labelWords {
		if strings.EqualFold(w, label) {
			return true
		}
	}
	return false
}
