package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comfythings/visaflow/internal/common"
)

func TestStageWritesAndHashes(t *testing.T) {
	s, err := NewStager(t.TempDir(), nil)
	require.NoError(t, err)

	st, err := s.Stage("visa scan.PDF", strings.NewReader("hello"))
	require.NoError(t, err)
	require.Equal(t, "pdf", st.Ext)
	require.Equal(t, "visa scan.PDF", st.Name)
	require.Equal(t, int64(5), st.Size)
	// sha256("hello")
	require.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", st.HashHex)

	data, err := os.ReadFile(st.Path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	s.Remove(st)
	_, err = os.Stat(st.Path)
	require.True(t, os.IsNotExist(err))
	s.Remove(st) // second removal is a no-op
}

func TestStageRejectsDisallowedExtension(t *testing.T) {
	s, err := NewStager(t.TempDir(), nil)
	require.NoError(t, err)

	for _, name := range []string{"doc.txt", "doc.exe", "doc"} {
		_, err := s.Stage(name, strings.NewReader("x"))
		require.ErrorIs(t, err, common.ErrInvalidInput, "name: %s", name)
	}

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Empty(t, entries, "rejected uploads must not leave files behind")
}

func TestAllowedExt(t *testing.T) {
	require.True(t, AllowedExt(".pdf"))
	require.True(t, AllowedExt("JPG"))
	require.True(t, AllowedExt("jpeg"))
	require.True(t, AllowedExt(".PNG"))
	require.False(t, AllowedExt("txt"))
	require.False(t, AllowedExt(""))
}

func TestIsHidden(t *testing.T) {
	require.True(t, IsHidden("/tmp/.DS_Store"))
	require.True(t, IsHidden(".git"))
	require.False(t, IsHidden("/tmp/scan.pdf"))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".hidden"), 0o755))
	for _, name := range []string{"a.pdf", "b.txt", ".sneaky.png", filepath.Join("sub", "c.jpg"), filepath.Join(".hidden", "d.png")} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}

	paths, stats, err := ScanDirectory(root, true)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.pdf"),
		filepath.Join(root, "sub", "c.jpg"),
	}, paths)
	require.Equal(t, uint32(2), stats.Matched)

	paths, _, err = ScanDirectory(root, false)
	require.NoError(t, err)
	require.Len(t, paths, 4) // hidden png and nested hidden dir now included
}

func TestScanDirectoryEmptyRoot(t *testing.T) {
	_, _, err := ScanDirectory("  ", true)
	require.Error(t, err)
}

func TestWatchInitialScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pathCh, _, err := Watch(ctx, WatchOptions{Dirs: []string{dir}, InitialScan: true})
	require.NoError(t, err)

	select {
	case p := <-pathCh:
		require.Equal(t, filepath.Join(dir, "a.pdf"), p)
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan emitted nothing")
	}
}

func TestWatchRequiresDirs(t *testing.T) {
	_, _, err := Watch(context.Background(), WatchOptions{})
	require.Error(t, err)
}
