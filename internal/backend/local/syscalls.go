package local

import (
	"os"

	"golang.org/x/sys/unix"
)

// OS is the operating system implementation of the os provider.
type OS struct{}

func (*OS) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

func (*OS) Lstat(name string) (os.FileInfo, error) {
	return os.Lstat(name)
}

// Unix is the operating system implementation of the unix provider.
type Unix struct{}

func (*Unix) Stat(path string, stat *unix.Stat_t) error {
	return unix.Stat(path, stat)
}
