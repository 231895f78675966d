package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store stages multipart uploads in a temp directory and moves them to
// their final location only after the owning DB transaction has
// committed. A crash between commit and move leaves orphans only in the
// stage directory, where SweepStale reclaims them.
type Store struct {
	Root     string
	StageDir string
}

// StagedFile is an upload saved under the stage directory, not yet
// attached to a product or vendor.
type StagedFile struct {
	TempPath     string
	OriginalName string
}

// Stage saves the uploaded file into the stage directory under a
// uuid-based name and returns a handle to it.
func (s *Store) Stage(c *gin.Context, file *multipart.FileHeader) (StagedFile, error) {
	if err := os.MkdirAll(s.StageDir, 0o755); err != nil {
		return StagedFile{}, err
	}

	ext := filepath.Ext(file.Filename)
	tempPath := filepath.Join(s.StageDir, uuid.New().String()+ext)

	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		return StagedFile{}, err
	}

	return StagedFile{TempPath: tempPath, OriginalName: file.Filename}, nil
}

// ProductDir returns the relative directory for a product's files,
// kind being "images", "documents" or "variants".
func (s *Store) ProductDir(vendorID, productID int64, kind string) string {
	return filepath.Join(s.Root, "products", fmt.Sprint(vendorID), fmt.Sprint(productID), kind)
}

// VendorDir returns the relative directory for a vendor's onboarding documents.
func (s *Store) VendorDir(vendorID int64) string {
	return filepath.Join(s.Root, "vendors", fmt.Sprint(vendorID), "documents")
}

// Finalize moves a staged file to destDir, keeping its staged filename,
// and returns the relative path recorded in the DB.
func (s *Store) Finalize(f StagedFile, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(destDir, filepath.Base(f.TempPath))
	if err := moveFile(f.TempPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// FinalPath is where Finalize will place the staged file. Handlers use
// it to record the path in the DB before the move happens.
func (s *Store) FinalPath(f StagedFile, destDir string) string {
	return filepath.Join(destDir, filepath.Base(f.TempPath))
}

// Discard removes staged files that will never be finalized (e.g. the
// DB transaction rolled back).
func (s *Store) Discard(files ...StagedFile) {
	for _, f := range files {
		os.Remove(f.TempPath)
	}
}

// moveFile renames src to dst, falling back to copy+delete when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}

// SweepStale deletes staged files older than maxAge. Run at startup and
// periodically so crashed requests do not leak disk.
func (s *Store) SweepStale(maxAge time.Duration, log *zap.Logger) {
	entries, err := os.ReadDir(s.StageDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("stage sweep failed", zap.Error(err))
		}
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.StageDir, entry.Name())); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		log.Info("removed stale staged uploads", zap.Int("count", removed))
	}
}
