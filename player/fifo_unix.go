//go:build !windows

package player

import (
	"os"

	"golang.org/x/sys/unix"
)

func makeFifo(path string) error {
	if err := unix.Mkfifo(path, 0600); err != nil {
		if err == unix.EEXIST {
			return os.ErrExist
		}
		return &os.PathError{Op: "mkfifo", Path: path, Err: err}
	}
	return nil
}

// openFifo opens the pipe read-write so the open does not block waiting for
// a writer, and so the player never sees EOF while the session lives.
func openFifo(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}
