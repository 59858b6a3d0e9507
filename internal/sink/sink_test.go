package sink

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hpungsan/logfile/internal/errors"
)

func TestSave_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")

	if err := Save(path, "T1\t:\tC1"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "T1\t:\tC1" {
		t.Errorf("content = %q, want %q", string(data), "T1\t:\tC1")
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("a much longer previous content\n\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := Save(path, "short"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "short" {
		t.Errorf("content = %q, want %q", string(data), "short")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("mode = %v, want existing mode 0600 preserved", info.Mode().Perm())
		}
	}
}

func TestSave_EmptyContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")

	if err := Save(path, ""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("size = %d, want 0", info.Size())
	}
}

func TestSave_NoExtensionInference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foo")

	if err := Save(path, "x"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %q to exist: %v", path, err)
	}
	if _, err := os.Stat(path + ".txt"); !os.IsNotExist(err) {
		t.Errorf("unexpected %q", path+".txt")
	}
}

func TestSave_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")

	if err := Save(path, "x"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
}

func TestSave_MissingParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "log.txt")

	err := Save(path, "x")
	if !errors.Is(err, errors.ErrSinkFailure) {
		t.Fatalf("Save() error = %v, want SINK_FAILURE", err)
	}
}

func TestSave_PathIsDirectory(t *testing.T) {
	dir := t.TempDir()

	err := Save(dir, "x")
	if !errors.Is(err, errors.ErrSinkFailure) {
		t.Fatalf("Save() error = %v, want SINK_FAILURE", err)
	}
}

func TestSave_EmptyPath(t *testing.T) {
	err := Save("", "x")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("Save() error = %v, want INVALID_REQUEST", err)
	}
}

func TestSave_FollowsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	link := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	if err := Save(link, "new"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "new" {
		t.Errorf("target content = %q, want %q", string(data), "new")
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("Lstat() error = %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("symlink was replaced by a regular file")
	}
}

func TestSave_ReadOnlyDirOverwritesInPlace(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced here")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(path, []byte("previous content"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	if err := Save(path, "new"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "new" {
		t.Errorf("content = %q, want %q", string(data), "new")
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !os.SameFile(before, after) {
		t.Error("expected the existing file to be rewritten in place")
	}
}

func TestSave_ReadOnlyDirNewFileFails(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced here")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatalf("Chmod() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	err := Save(filepath.Join(dir, "log.txt"), "new")
	if !errors.Is(err, errors.ErrSinkFailure) {
		t.Fatalf("Save() error = %v, want SINK_FAILURE", err)
	}
}
