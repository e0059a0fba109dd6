package constants

// DocumentType is the binary classification driving the extraction strategy.
type DocumentType string

const (
	DocumentVisa     DocumentType = "visa"
	DocumentPassport DocumentType = "passport"
)

var allDocumentTypes = []DocumentType{
	DocumentVisa,
	DocumentPassport,
}

func DocumentTypes() []string {
	result := make([]string, len(allDocumentTypes))
	for i, dt := range allDocumentTypes {
		result[i] = string(dt)
	}
	return result
}

// EmailDomain is the fixed domain for synthesized client addresses.
const EmailDomain = "comfythings.com"
