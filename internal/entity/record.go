package entity

// ExtractedRecord is the pipeline's output for one processed upload.
// Every field is always present; a field the extractors could not
// resolve is the empty string, never absent.
type ExtractedRecord struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	PassportNumber string `json:"passport_number"`
	VisaNumber     string `json:"visa_number"`
	BirthDate      string `json:"birth_date"` // DD/MM/YYYY when known
	Photo          string `json:"photo"`      // JPEG data URI, or ""
}
