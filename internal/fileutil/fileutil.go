// Package fileutil holds small file helpers shared by the snapshot writer.
package fileutil

import (
	"io"
	"os"
	"path/filepath"
)

// CopyFile replaces dst with a copy of src. The data goes through a temp
// file in dst's directory followed by a rename, so a concurrent reader of
// dst never observes a partial copy.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
