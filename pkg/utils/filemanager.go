// =============================================================================
// Purchase Analyzer - File Manager Utility
// =============================================================================
//
// This module provides the file utilities the analyzer needs around its
// outputs:
//   - Atomic file replacement for reports and logs
//   - Report archival (timestamped copies in an archive directory)
//   - File naming from placeholder templates
//
// ARCHIVAL STRATEGY:
//   - Reports are copied, never moved, so the configured report path stays valid
//   - Archive names come from a template such as "report_{timestamp}_{uuid}.txt"
//   - Optional date-based subdirectories (archive/2025/09/01/...)
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles archive copies of generated files.
type FileManager struct {
	// ArchiveDir is the directory that receives archived copies.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/2025/09/01/report_20250901_101500_<uuid>.txt
	UseTimestampSubdirs bool

	// now is the clock used for names and subdirectories.
	now func() time.Time
}

// NewFileManager creates a FileManager that archives into archiveDir.
func NewFileManager(archiveDir string) *FileManager {
	return &FileManager{
		ArchiveDir: archiveDir,
		now:        time.Now,
	}
}

// EnsureDirectories creates the archive directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if fm.ArchiveDir == "" {
		return fmt.Errorf("archive directory is not set")
	}
	if err := os.MkdirAll(fm.ArchiveDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.ArchiveDir, err)
	}
	return nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveFile copies a file into the archive directory.
//
// PARAMETERS:
//   - filePath: The file to archive. It is left in place.
//   - format: The archive name template (see FileManager.GenerateFileName). The
//             {original} placeholder is the source name without extension.
//             An empty format keeps the source file name.
//
// RETURNS:
//   - The path of the archived copy.
//   - An error if the directory cannot be created or the copy fails.
func (fm *FileManager) ArchiveFile(filePath, format string) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	name := base
	if format != "" {
		name = fm.GenerateFileName(format, ext, map[string]string{
			"original": strings.TrimSuffix(base, ext),
		})
	}

	archivePath := fm.getArchivePath(name)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file name.
func (fm *FileManager) getArchivePath(fileName string) string {
	if fm.UseTimestampSubdirs {
		now := fm.clock()
		return filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			fileName,
		)
	}
	return filepath.Join(fm.ArchiveDir, fileName)
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateFileName builds a file name from a template using the manager's
// clock.
//
// PARAMETERS:
//   - format: The template. Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//             plus one {key} for every entry in params.
//   - ext: The extension the name must end with (e.g. ".txt"). Empty means
//          no extension is enforced.
//   - params: Extra placeholder values.
//
// EXAMPLE:
//   format: "{original}_{date}.txt"
//   params: {"original": "report"}
//   output: "report_20250901.txt"
func (fm *FileManager) GenerateFileName(format, ext string, params map[string]string) string {
	now := fm.clock()
	pairs := []string{
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	}
	for key, value := range params {
		pairs = append(pairs, "{"+key+"}", value)
	}

	result := strings.NewReplacer(pairs...).Replace(format)

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path. Readers see either the old content or the new one, never a
// partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
