// Package hostfs provides the filesystem operations the lifecycle's
// Link step and the shim installer need: writing a symbolic bin entry
// for the default version, hard-linking (or copying) the launcher
// binary under each shim name, and atomic rename for downloads.
//
// Adapted from the teacher's internal/ports.FileSystem interface
// (felixgeelhaar-preflight), which used the same operations to manage
// its own recipe symlinks into dotfile targets; the shape carries over
// unchanged since "create/replace a symlink, hash a file, atomically
// rename" is identical machinery regardless of what the symlink points
// at.
package hostfs

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem is the set of operations the store and shim installer
// need against the host filesystem.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsSymlink(path string) (isLink bool, target string)
	CreateSymlink(target, link string) error
	HardLink(target, link string) error
	Remove(path string) error
	RemoveAll(path string) error
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldPath, newPath string) error
	FileHash(path string) (string, error)
	IsDir(path string) bool
}

// Real implements FileSystem against the actual host filesystem.
type Real struct{}

// NewReal constructs a Real filesystem.
func NewReal() *Real {
	return &Real{}
}

func (fs *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (fs *Real) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (fs *Real) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (fs *Real) IsSymlink(path string) (bool, string) {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return false, ""
	}
	target, err := os.Readlink(path)
	if err != nil {
		return true, ""
	}
	return true, target
}

func (fs *Real) CreateSymlink(target, link string) error {
	_ = os.Remove(link)
	return os.Symlink(target, link)
}

// HardLink hard-links target at link, falling back to a copy when the
// platform or filesystem doesn't support hard links (spec.md §4.7's
// launcher installation: "hard-linked, or copied on platforms without
// hard links").
func (fs *Real) HardLink(target, link string) error {
	_ = os.Remove(link)
	if err := os.Link(target, link); err == nil {
		return nil
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	return os.WriteFile(link, data, info.Mode())
}

func (fs *Real) Remove(path string) error {
	return os.Remove(path)
}

func (fs *Real) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (fs *Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *Real) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (fs *Real) FileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (fs *Real) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

var _ FileSystem = (*Real)(nil)

// ExpandHome expands a leading "~/" to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
