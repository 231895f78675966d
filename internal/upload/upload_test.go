package upload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	s := &Store{
		Root:     filepath.Join(root, "uploads"),
		StageDir: filepath.Join(root, "uploads", "tmp"),
	}
	require.NoError(t, os.MkdirAll(s.StageDir, 0o755))
	return s
}

func stageFixture(t *testing.T, s *Store, name, content string) StagedFile {
	t.Helper()
	path := filepath.Join(s.StageDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return StagedFile{TempPath: path, OriginalName: name}
}

func TestFinalizeMovesStagedFile(t *testing.T) {
	s := newTestStore(t)
	sf := stageFixture(t, s, "doc-1.pdf", "gst certificate")

	destDir := s.ProductDir(3, 17, "documents")
	final, err := s.Finalize(sf, destDir)
	require.NoError(t, err)

	assert.Equal(t, s.FinalPath(sf, destDir), final)

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "gst certificate", string(data))

	_, err = os.Stat(sf.TempPath)
	assert.True(t, os.IsNotExist(err), "staged file should be gone after finalize")
}

func TestProductAndVendorDirs(t *testing.T) {
	s := &Store{Root: "uploads"}
	assert.Equal(t, filepath.Join("uploads", "products", "3", "17", "images"),
		s.ProductDir(3, 17, "images"))
	assert.Equal(t, filepath.Join("uploads", "vendors", "5", "documents"),
		s.VendorDir(5))
}

func TestDiscardRemovesStagedFiles(t *testing.T) {
	s := newTestStore(t)
	a := stageFixture(t, s, "a.png", "a")
	b := stageFixture(t, s, "b.png", "b")

	s.Discard(a, b)

	_, err := os.Stat(a.TempPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(b.TempPath)
	assert.True(t, os.IsNotExist(err))
}

func TestSweepStaleRemovesOnlyOldFiles(t *testing.T) {
	s := newTestStore(t)
	old := stageFixture(t, s, "old.jpg", "old")
	fresh := stageFixture(t, s, "fresh.jpg", "fresh")

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old.TempPath, stale, stale))

	s.SweepStale(24*time.Hour, zap.NewNop())

	_, err := os.Stat(old.TempPath)
	assert.True(t, os.IsNotExist(err), "stale file should be swept")
	_, err = os.Stat(fresh.TempPath)
	assert.NoError(t, err, "fresh file should survive the sweep")
}

func TestSweepStaleMissingDirIsNoop(t *testing.T) {
	s := &Store{StageDir: filepath.Join(t.TempDir(), "does-not-exist")}
	s.SweepStale(time.Hour, zap.NewNop())
}
