package mirror

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// copyFile replaces dst with the contents of src through a temporary
// sibling, then stamps dst with modTime
func copyFile(src, dst string, mode fs.FileMode, modTime time.Time) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".mirror-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Chmod(mode.Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return err
	}
	// zero atime leaves the access time alone
	return os.Chtimes(dst, time.Time{}, modTime)
}
