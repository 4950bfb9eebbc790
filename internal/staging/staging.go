package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"snapsort/internal/textutil"
)

// Area manages the holding directory where downloads land while a batch is
// still open. All batches share one area; finalization moves files out.
type Area struct {
	dir string
}

// NewArea binds an Area to the configured staging directory.
func NewArea(dir string) *Area {
	return &Area{dir: strings.TrimSpace(dir)}
}

// Dir returns the staging directory path.
func (a *Area) Dir() string {
	return a.dir
}

// Ensure creates the staging directory when missing.
func (a *Area) Ensure() error {
	if a.dir == "" {
		return errors.New("staging directory not configured")
	}
	return os.MkdirAll(a.dir, 0o755)
}

// Allocate returns a free path in the staging area for an incoming download.
// The suggested name is sanitized for filesystem use; when empty, the message
// id seeds a fallback photo name. Existing files are never overwritten: a
// numeric suffix is appended until the name is unused.
func (a *Area) Allocate(suggestedName string, messageID int64) string {
	name := strings.TrimSpace(suggestedName)
	if name == "" {
		name = fmt.Sprintf("photo_%d.jpg", messageID)
	} else {
		name = textutil.Sanitize(name)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for n := 1; ; n++ {
		path := filepath.Join(a.dir, candidate)
		if _, err := os.Stat(path); err != nil {
			return path
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
}

// FileInfo contains metadata about a staged file.
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// List returns the files currently sitting in the staging area, oldest first.
// Subdirectories are ignored. A missing staging directory yields an empty
// listing rather than an error.
func (a *Area) List() ([]FileInfo, error) {
	if a.dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(a.dir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}
