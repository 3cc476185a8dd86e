package common

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// rotatingFile is an append-only log file that moves itself to a gzip
// backup before a write would take it past maxSize.
type rotatingFile struct {
	mu         sync.Mutex
	path       string
	maxSize    int64
	maxBackups int
	file       *os.File
	size       int64
	now        func() time.Time
}

// isSymlink reports whether path is a symbolic link. A missing path is not.
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

func openRotatingFile(dir string, maxSize int64, maxBackups int) (*rotatingFile, error) {
	if dir == "" {
		return nil, errors.New("log directory not set")
	}
	// Symlinked log paths are refused.
	if isSymlink(dir) {
		return nil, fmt.Errorf("security error: log directory %s is a symlink", dir)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, LogFileName)
	if isSymlink(path) {
		return nil, fmt.Errorf("security error: log file %s is a symlink", path)
	}

	f := &rotatingFile{
		path:       path,
		maxSize:    maxSize,
		maxBackups: maxBackups,
		now:        time.Now,
	}

	if info, err := os.Stat(path); err == nil && maxSize > 0 && info.Size() >= maxSize {
		f.backup()
	}
	if err := f.open(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *rotatingFile) open() error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}
	f.file = file
	f.size = info.Size()
	return nil
}

// Write appends p, rotating first when the file would exceed maxSize.
func (f *rotatingFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file != nil && f.maxSize > 0 && f.size > 0 && f.size+int64(len(p)) > f.maxSize {
		f.file.Close()
		f.file = nil
		f.backup()
	}
	if f.file == nil {
		if err := f.open(); err != nil {
			return 0, err
		}
	}

	n, err := f.file.Write(p)
	f.size += int64(n)
	return n, err
}

// Close closes the underlying file.
func (f *rotatingFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// backup moves the current file aside and prunes old backups.
// The file must be closed.
func (f *rotatingFile) backup() {
	stamp := f.now().Format("20060102-150405.000")
	target := f.path + "." + stamp
	if err := compressFile(f.path, target+".gz"); err != nil {
		os.Remove(target + ".gz")
		os.Rename(f.path, target)
	} else {
		os.Remove(f.path)
	}
	f.prune()
}

// prune keeps the newest maxBackups backups.
func (f *rotatingFile) prune() {
	if f.maxBackups <= 0 {
		return
	}
	matches, err := filepath.Glob(f.path + ".*")
	if err != nil || len(matches) <= f.maxBackups {
		return
	}
	// Backup names embed a sortable timestamp.
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-f.maxBackups] {
		os.Remove(old)
	}
}

// compressFile writes a gzip copy of src to dst.
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
