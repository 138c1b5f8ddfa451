//go:build unix

package fileio

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFlags keeps the mapping private to this process.
const mapFlags = unix.MAP_PRIVATE

// mapFile maps size bytes of the file at path read-only. The returned
// release function unmaps it.
func mapFile(path string, size int64) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, mapFlags)
	if err != nil {
		return nil, nil, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	release := func() error { return unix.Munmap(data) }
	return data, release, nil
}

func writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
