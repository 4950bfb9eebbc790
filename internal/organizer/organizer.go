package organizer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"snapsort/internal/label"
	"snapsort/internal/logging"
	"snapsort/internal/services"
)

// stampLayout renders the batch start time inside destination folder names.
const stampLayout = "2006-01-02_15-04-05"

// Organizer relocates staged batch files into their destination folder.
type Organizer struct {
	root   string
	logger *slog.Logger
}

// New returns an Organizer that files batches under root.
func New(root string, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{root: root, logger: logger}
}

// Result summarizes one relocation pass.
type Result struct {
	Destination string
	Moved       int
	Failed      int
}

// Relocate moves files, in order, into a destination folder named after lbl
// and the batch start time. Creating the folder is the only hard failure;
// individual move failures are logged, counted, and skipped so one bad file
// never strands the rest of the batch. The destination keeps each file's
// staged name unless it is already taken, in which case the file gains a
// suffix derived from how many files have landed so far.
func (o *Organizer) Relocate(ctx context.Context, lbl label.Label, startedAt time.Time, files []string) (Result, error) {
	logger := logging.WithContext(ctx, o.logger)
	dest := filepath.Join(o.root, lbl.DirName(startedAt.Format(stampLayout)))
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Result{}, services.Wrap(
			services.ErrConfiguration,
			"organizer",
			"create destination",
			"Failed to create destination folder "+dest,
			err,
		)
	}

	res := Result{Destination: dest}
	for _, src := range files {
		base := filepath.Base(src)
		dst := filepath.Join(dest, base)
		if _, err := os.Stat(dst); err == nil {
			ext := filepath.Ext(base)
			stem := strings.TrimSuffix(base, ext)
			dst = filepath.Join(dest, fmt.Sprintf("%s_%d%s", stem, res.Moved, ext))
		}
		if err := moveFile(logger, src, dst); err != nil {
			logger.Warn("failed to move staged file",
				logging.String("source", src),
				logging.String("target", dst),
				logging.Error(err),
			)
			res.Failed++
			continue
		}
		res.Moved++
	}

	logger.Info("batch filed",
		logging.String("destination", dest),
		logging.Int("moved", res.Moved),
		logging.Int("failed", res.Failed),
	)
	return res, nil
}

// moveFile renames src onto dst, falling back to copy+delete when staging and
// output live on different filesystems. An existing dst is replaced, matching
// rename semantics on the same filesystem.
func moveFile(logger *slog.Logger, src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := copyFile(src, dst); copyErr != nil {
			return services.Wrap(services.ErrTransient, "organizer", "copy file", "Failed to copy file into destination folder", copyErr)
		}
		if err := os.Remove(src); err != nil {
			logger.Warn("failed to remove staged file after copy; duplicate remains in staging",
				logging.String("source", src),
				logging.Error(err),
			)
		}
		return nil
	}

	return services.Wrap(services.ErrTransient, "organizer", "move file", "Failed to move file into destination folder", renameErr)
}

// copyFile copies src to dst and verifies size and content hash before
// reporting success, removing the partial destination on mismatch.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	// Hash source while reading, hash destination while writing
	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}
