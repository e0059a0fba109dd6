package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comfythings/visaflow/constants"
)

func TestDetectMRZShape(t *testing.T) {
	require.Equal(t, constants.DocumentPassport, Detect("garbage P<MAR more garbage"))
	require.Equal(t, constants.DocumentPassport, Detect("AB1234567MAR8501019M3001017"))
}

func TestDetectPassportKeywords(t *testing.T) {
	for _, txt := range []string{
		"REPUBLIC PASSPORT of nowhere",
		"passeport no 12",
		"جواز سفر",
		"ROYAUME DU MAROC",
		"Kingdom of Saudi Arabia",
	} {
		require.Equal(t, constants.DocumentPassport, Detect(txt), "text: %s", txt)
	}
}

func TestDetectVisaKeywords(t *testing.T) {
	for _, txt := range []string{
		"VISA No: 1234567890",
		"تأشيرة",
		"single entry permitted",
		"Umrah permit",
		"hajj season",
	} {
		require.Equal(t, constants.DocumentVisa, Detect(txt), "text: %s", txt)
	}
}

func TestDetectPassportWinsOverVisa(t *testing.T) {
	// Passport keywords are checked first; visa words on the same page
	// do not flip the result.
	require.Equal(t, constants.DocumentPassport, Detect("Kingdom of Saudi Arabia visa section"))
}

func TestDetectDefaultsToVisa(t *testing.T) {
	require.Equal(t, constants.DocumentVisa, Detect(""))
	require.Equal(t, constants.DocumentVisa, Detect("nothing признак here"))
}

func TestDetectIsPure(t *testing.T) {
	const txt = "Kingdom of Saudi Arabia"
	first := Detect(txt)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Detect(txt))
	}
}
