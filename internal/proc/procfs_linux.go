//go:build linux

package proc

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
)

// DefaultRoot is where procfs is normally mounted.
const DefaultRoot = "/proc"

// FS reads process information from a procfs tree.
type FS struct {
	Root string
}

// NewFS returns an FS rooted at root, or at DefaultRoot when root is empty.
func NewFS(root string) *FS {
	if root == "" {
		root = DefaultRoot
	}
	return &FS{Root: root}
}

func (f *FS) path(pid int, elem ...string) string {
	return filepath.Join(append([]string{f.Root, strconv.Itoa(pid)}, elem...)...)
}

// PIDs lists the numeric entries of the procfs root in ascending order.
func (f *FS) PIDs() ([]int, error) {
	entries, err := os.ReadDir(f.Root)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	var pids []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	return pids, nil
}

// OpenMaps opens /proc/<pid>/maps.
func (f *FS) OpenMaps(pid int) (io.ReadCloser, error) {
	return os.Open(f.path(pid, "maps"))
}

// Exe resolves /proc/<pid>/exe, without the kernel's deleted marker.
func (f *FS) Exe(pid int) (string, error) {
	target, err := os.Readlink(f.path(pid, "exe"))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(target, DeletedSuffix), nil
}

// UID returns the owner of /proc/<pid>, which is the process's real user.
func (f *FS) UID(pid int) (uint32, error) {
	info, err := os.Stat(f.path(pid))
	if err != nil {
		return 0, err
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("no stat data for pid %d", pid)
	}
	return stat.Uid, nil
}

// Inode returns the inode number behind a FileInfo from os.Stat.
func Inode(info os.FileInfo) (uint64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return stat.Ino, true
}
