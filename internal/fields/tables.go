package fields

// Keyword tables used by the extractors. These are data, not control
// flow: tests enumerate them independently of the parsing algorithms.

// nameStopLabels end the anchored name span: the capture runs from the
// name label up to the first of these.
var nameStopLabels = []string{
	"birth",
	"تاريخ",
	"passport",
	"رقم",
	"nationality",
	"الجنسية",
	"issue",
	"visa",
	"duration",
}

// noiseWords are OCR artifacts and boilerplate that routinely leak into
// name candidates. Stripped case-insensitively as whole words.
var noiseWords = []string{
	"KSA",
	"Kingdom",
	"Arabia",
	"Saudi",
	"He",
	"Al",
	"The",
	"Visa",
	"Digital",
	"Embassy",
}

// rejectedNames are candidates that survive cleanup but are never a
// real name; matching one empties the result.
var rejectedNames = []string{
	"Al",
	"He",
	"The",
	"Of",
	"In",
	"By",
}

// visaHeaderWords mark lines of a visa document that the heuristic
// line scan must skip before looking for an Arabic name.
var visaHeaderWords = []string{
	"kingdom",
	"ministry",
	"visa",
	"passport",
	"date",
	"duration",
	"place",
	"المملكة",
	"وزارة",
	"تأشيرة",
	"جواز",
	"تاريخ",
	"مدة",
	"مكان",
}

// passportHeaderWords mark header and label lines of a passport bio
// page for the Arabic bio-page extractor.
var passportHeaderWords = []string{
	"passport",
	"passeport",
	"republic",
	"kingdom",
	"nationality",
	"date",
	"place",
	"authority",
	"sex",
	"جواز",
	"مملكة",
	"جمهورية",
	"الجنسية",
	"تاريخ",
	"مكان",
	"سلطة",
	"الجنس",
}

// RejectedNames exposes the rejection table for tests and callers that
// need to enumerate it.
func RejectedNames() []string {
	out := make([]string, len(rejectedNames))
	copy(out, rejectedNames)
	return out
}

// NoiseWords exposes the OCR-noise table.
func NoiseWords() []string {
	out := make([]string, len(noiseWords))
	copy(out, noiseWords)
	return out
}
