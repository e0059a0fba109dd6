package ocr

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	return s.stdout, s.stderr, s.err
}

func newTestEngine(cfg Config, r Runner) *Engine {
	e := NewEngine(cfg, slog.Default())
	e.runner = r
	return e
}

func TestRecognizePassesScriptHint(t *testing.T) {
	r := &stubRunner{stdout: []byte("hello  world\r\n")}
	e := newTestEngine(Config{}, r)

	txt, err := e.Recognize(context.Background(), "/tmp/in.png")
	require.NoError(t, err)
	require.Equal(t, "hello world", txt)

	require.Equal(t, "tesseract", r.gotName)
	require.Equal(t, []string{"/tmp/in.png", "stdout", "-l", "ara+eng"}, r.gotArgs)
}

func TestRecognizeTessdataDirAndPSM(t *testing.T) {
	r := &stubRunner{stdout: []byte("x")}
	e := newTestEngine(Config{TessdataDir: "/opt/tessdata", PSM: 6}, r)

	_, err := e.Recognize(context.Background(), "a.png")
	require.NoError(t, err)
	require.Contains(t, r.gotArgs, "--tessdata-dir")
	require.Contains(t, r.gotArgs, "/opt/tessdata")
	require.Contains(t, r.gotArgs, "--psm")
	require.Contains(t, r.gotArgs, "6")
}

func TestRecognizeFailureIsFatal(t *testing.T) {
	r := &stubRunner{err: errors.New("exit status 1"), stderr: []byte("boom")}
	e := newTestEngine(Config{}, r)

	_, err := e.Recognize(context.Background(), "a.png")
	require.Error(t, err)
	require.Contains(t, err.Error(), "tesseract")
}

func TestNormalize(t *testing.T) {
	in := "Name:   JOHN\t DOE\r\n____\r\n\n\n\nVisa  No: 12345   "
	out := Normalize(in)
	require.Equal(t, "Name: JOHN DOE\n\nVisa No: 12345", out)
}

func TestNormalizeEmpty(t *testing.T) {
	require.Equal(t, "", Normalize(""))
}
