package mrz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testLine1 = "P<MARDOE<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<"
	testLine2 = "AB12345674MAR8501019M3001017<<<<<<<<<<<<<<<<"
)

func TestDecodeRoundTrip(t *testing.T) {
	d := Decode(testLine1 + "\n" + testLine2)
	require.NotNil(t, d)

	require.Equal(t, "DOE", d.LastName)
	require.Equal(t, "JOHN", d.FirstName)
	require.Equal(t, "AB1234567", d.PassportNumber)
	require.Equal(t, "MAR", d.Nationality)
	require.Equal(t, "M", d.Sex)
	require.Equal(t, "01/01/1985", d.BirthDate)
	require.Equal(t, "01/01/2030", d.ExpiryDate)
}

func TestDecodeSurroundingNoise(t *testing.T) {
	text := "ROYAUME DU MAROC\nsome header line\n" +
		testLine1 + "\n" + testLine2 + "\ntrailing noise"
	d := Decode(text)
	require.NotNil(t, d)
	require.Equal(t, "AB1234567", d.PassportNumber)
}

func TestDecodeInternalWhitespaceStripped(t *testing.T) {
	// OCR likes to split MRZ lines with stray spaces.
	spaced := "P<MARDOE<< JOHN<<<<<<<<<< <<<<<<<<<<<<<<<<<<<<<<<<"
	d := Decode(spaced + "\n" + testLine2)
	require.NotNil(t, d)
	require.Equal(t, "JOHN", d.FirstName)
}

func TestDecodeWithoutCheckDigits(t *testing.T) {
	// Recognition sometimes drops the check digits after the document
	// number and birth date. The fields must stay aligned either way.
	line2 := "AB1234567MAR8501019M30010170000000000000000"
	d := Decode(testLine1 + "\n" + line2)
	require.NotNil(t, d)

	require.Equal(t, "AB1234567", d.PassportNumber)
	require.Equal(t, "MAR", d.Nationality)
	require.Equal(t, "M", d.Sex)
	require.Equal(t, "01/01/1985", d.BirthDate)
	require.Equal(t, "01/01/2030", d.ExpiryDate)
}

func TestDecodeLine2ShapeFallback(t *testing.T) {
	// Line 1 prefix mangled by OCR: located via the line-2 shape, with
	// the preceding line treated as line 1.
	mangled := "PKMARDOE<<JOHN<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<<"
	d := Decode(mangled + "\n" + testLine2)
	require.NotNil(t, d)
	require.Equal(t, "AB1234567", d.PassportNumber)
	require.Equal(t, "01/01/1985", d.BirthDate)
}

func TestDecodeMissingLines(t *testing.T) {
	require.Nil(t, Decode(""))
	require.Nil(t, Decode("no mrz here at all"))
	// line 1 alone, nothing after it
	require.Nil(t, Decode(testLine1))
	// line 2 alone, nothing before it
	require.Nil(t, Decode(testLine2))
}

func TestCenturyBoundary(t *testing.T) {
	cases := map[string]string{
		"500101": "01/01/1950",
		"490101": "01/01/2049",
		"510101": "01/01/1951",
		"000229": "29/02/2000",
		"991231": "31/12/1999",
	}
	for raw, want := range cases {
		require.Equal(t, want, convertDate(raw), "raw: %s", raw)
	}
}

func TestConvertDateRejectsGarbage(t *testing.T) {
	require.Equal(t, "", convertDate("12345"))
	require.Equal(t, "", convertDate("12345x"))
	require.Equal(t, "", convertDate(""))
}

func TestFillerNamesWithSingleSeparators(t *testing.T) {
	line1 := "P<NLDVAN<DER<BERG<<JAN<PIETER<<<<<<<<<<<<<<<<<<<<<"
	d := Decode(line1 + "\n" + testLine2)
	require.NotNil(t, d)
	require.Equal(t, "VAN DER BERG", d.LastName)
	require.Equal(t, "JAN PIETER", d.FirstName)
}
