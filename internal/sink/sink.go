package sink

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hpungsan/logfile/internal/errors"
)

// DefaultPerm is the mode given to newly created log files.
const DefaultPerm os.FileMode = 0644

// Save writes content to path verbatim, creating the file if absent and
// replacing it if present. No newline is appended and no extension is inferred.
//
// The content is written to a temp file in the same directory and renamed into
// place, so a failed save leaves any existing file untouched. The parent
// directory must already exist. Symlinks are followed to their target.
// When the directory is not writable but the file is, the file is truncated
// and rewritten in place instead.
func Save(path, content string) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}

	target, perm, exists, err := resolveTarget(path)
	if err != nil {
		return errors.NewSinkFailure(path, err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		if os.IsPermission(err) && exists {
			return overwrite(path, target, content)
		}
		return errors.NewSinkFailure(path, fmt.Errorf("failed to create temp file: %w", err))
	}

	success := false
	defer func() {
		if !success {
			if err := os.Remove(tempFile.Name()); err != nil && !os.IsNotExist(err) {
				log.Printf("failed to remove temp file %s: %v", tempFile.Name(), err)
			}
		}
	}()

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		return errors.NewSinkFailure(path, fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return errors.NewSinkFailure(path, fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := tempFile.Close(); err != nil {
		return errors.NewSinkFailure(path, fmt.Errorf("failed to close temp file: %w", err))
	}
	if err := os.Chmod(tempFile.Name(), perm); err != nil {
		return errors.NewSinkFailure(path, fmt.Errorf("failed to chmod temp file: %w", err))
	}

	if err := os.Rename(tempFile.Name(), target); err != nil {
		return errors.NewSinkFailure(path, fmt.Errorf("failed to replace file: %w", err))
	}

	success = true
	return nil
}

// overwrite truncates an existing file and writes content into it, keeping
// its inode, owner and mode.
func overwrite(path, target, content string) error {
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return errors.NewSinkFailure(path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return errors.NewSinkFailure(path, fmt.Errorf("failed to write file: %w", err))
	}
	if err := f.Close(); err != nil {
		return errors.NewSinkFailure(path, fmt.Errorf("failed to close file: %w", err))
	}
	return nil
}

// resolveTarget follows a symlinked path to its target and reports the mode
// the written file should carry (the existing file's, or DefaultPerm) and
// whether the target already exists.
func resolveTarget(path string) (string, os.FileMode, bool, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return path, DefaultPerm, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}

	target := path
	if info.Mode()&os.ModeSymlink != 0 {
		target, err = filepath.EvalSymlinks(path)
		if err != nil {
			return "", 0, false, fmt.Errorf("cannot resolve symlink: %w", err)
		}
		info, err = os.Stat(target)
		if err != nil {
			return "", 0, false, err
		}
	}

	if info.IsDir() {
		return "", 0, false, fmt.Errorf("path is a directory")
	}
	return target, info.Mode().Perm(), true, nil
}
