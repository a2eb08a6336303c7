package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Digital-Shane/media-mover/internal/log"
)

// Relocator moves files to their rendered destinations. In dry-run mode the
// destination is computed and reported but the filesystem is never touched.
type Relocator struct {
	DryRun bool
}

// Relocate moves src to dest, creating missing parent directories first.
// Failures are journaled and returned; the caller treats them as per-file,
// non-fatal errors.
func (r *Relocator) Relocate(src, dest string) error {
	if r.DryRun {
		return nil
	}

	dir := filepath.Dir(dest)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.LogCreateDir(dir, false, err)
			return fmt.Errorf("create %s: %w", dir, err)
		}
		log.LogCreateDir(dir, true, nil)
	}

	if _, err := os.Stat(dest); err == nil {
		err := fmt.Errorf("destination already exists")
		log.LogRelocate(src, dest, false, err)
		return fmt.Errorf("move %s: %w", src, err)
	}

	if err := moveFile(src, dest); err != nil {
		log.LogRelocate(src, dest, false, err)
		return fmt.Errorf("move %s: %w", src, err)
	}
	log.LogRelocate(src, dest, true, nil)
	return nil
}

// moveFile renames src to dest, falling back to copy-and-remove when the
// rename crosses a filesystem boundary.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}
	return os.Remove(src)
}
