package fields

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPassportNumber(t *testing.T) {
	cases := map[string]string{
		"Passport No: AB1234567":          "AB1234567",
		"PASSPORT NO. X9876543 issued":    "X9876543",
		"رقم الجواز: K0123456":            "K0123456",
		"scattered text AB1234567 suffix": "AB1234567",
		"no number here":                  "",
	}
	for text, want := range cases {
		require.Equal(t, want, PassportNumber(text), "text: %s", text)
	}
}

func TestVisaNumber(t *testing.T) {
	cases := map[string]string{
		"Visa No: 2301456789":        "2301456789",
		"VISA NO. 987654321012":      "987654321012",
		"رقم التأشيرة: 2301456789":   "2301456789",
		"stamp 23014567890123 extra": "",
		"bare run 23014567891 here":  "23014567891",
		"only words":                 "",
	}
	for text, want := range cases {
		require.Equal(t, want, VisaNumber(text), "text: %s", text)
	}
}

func TestBirthDate(t *testing.T) {
	cases := map[string]string{
		"Birth Date: 01/02/1990":        "01/02/1990",
		"Date of Birth 1/2/1990":        "01/02/1990",
		"تاريخ الميلاد: 12/11/1985":     "12/11/1985",
		"issued 10/10/2020 other noise": "10/10/2020",
		"no date":                       "",
	}
	for text, want := range cases {
		require.Equal(t, want, BirthDate(text), "text: %s", text)
	}
}

func TestFullNameAnchoredSpanArabic(t *testing.T) {
	text := "الاسم: محمد الغزالي\nتاريخ الميلاد: 01/01/1990"
	require.Equal(t, "محمد الغزالي", FullName(text))
}

func TestFullNameAnchoredSpanEnglish(t *testing.T) {
	text := "Name: John Smith\nPassport No: AB1234567"
	require.Equal(t, "John Smith", FullName(text))
}

func TestFullNameLineScanFallback(t *testing.T) {
	text := "المملكة العربية السعودية\n" +
		"وزارة الخارجية\n" +
		"محمد عبد الله الغزالي\n" +
		"Passport No: AB1234567"
	require.Equal(t, "محمد عبد الله الغزالي", FullName(text))
}

func TestFullNameLineScanOverridesLatinResult(t *testing.T) {
	// Strategy 1 finds a Latin candidate, but an Arabic line is
	// present: the heuristic scan wins.
	text := "Name: Mr Visa\n" +
		"محمد عبد الله الغزالي\n" +
		"Duration: 90 days"
	require.Equal(t, "محمد عبد الله الغزالي", FullName(text))
}

func TestFullNameEmptyText(t *testing.T) {
	require.Equal(t, "", FullName(""))
	require.Equal(t, "", FullName("no labels at all"))
}

func TestCleanNameRejectionSet(t *testing.T) {
	for _, w := range []string{"Al", "al", "AL", "He", "he", "The", "THE", "Of", "In", "By", "by"} {
		require.Equal(t, "", CleanName(w), "word: %s", w)
	}
}

func TestCleanNameStripsNoiseWords(t *testing.T) {
	require.Equal(t, "محمد الغزالي", CleanName("KSA محمد الغزالي Kingdom Saudi Arabia"))
}

func TestCleanNameStripsShortLatinAndDigitsFromArabic(t *testing.T) {
	require.Equal(t, "محمد الغزالي", CleanName("محمد my الغزالي 12345 ab1x"))
}

func TestCleanNameKeepsLatinOnlyCandidates(t *testing.T) {
	// No Arabic in the candidate: short Latin words and digits stay.
	require.Equal(t, "Jo Smith 99", CleanName("Jo Smith 99"))
}

func TestCleanNameTooShort(t *testing.T) {
	require.Equal(t, "", CleanName("ab"))
	require.Equal(t, "", CleanName(".."))
	require.Equal(t, "", CleanName(""))
}

func TestArabicBioName(t *testing.T) {
	text := "KINGDOM OF MOROCCO PASSPORT\n" +
		"تاريخ الميلاد 01/01/1985\n" +
		"محمد الغزالي\n"
	require.Equal(t, "محمد الغزالي", ArabicBioName(text))
}

func TestArabicBioNameRejectsMixedScript(t *testing.T) {
	// Too much Latin bleed-through: below the 70% Arabic threshold.
	text := "محمد الغزالي Mohammed Alghazali\n"
	require.Equal(t, "", ArabicBioName(text))
}

func TestArabicBioNameEmpty(t *testing.T) {
	require.Equal(t, "", ArabicBioName(""))
	require.Equal(t, "", ArabicBioName("PASSPORT Kingdom header only"))
}

func TestDenylistTablesNonEmpty(t *testing.T) {
	require.NotEmpty(t, RejectedNames())
	require.NotEmpty(t, NoiseWords())
	require.Contains(t, RejectedNames(), "Al")
	require.Contains(t, NoiseWords(), "Embassy")
}
