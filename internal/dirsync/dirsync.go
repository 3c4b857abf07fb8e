// Package dirsync copies a bundled plugin tree into its install location.
//
// The copy is recursive and ordered: within each directory, files are
// copied first (in lexical order), then subdirectories are descended into
// (in lexical order). Nothing is transactional. A failure stops the sync
// and leaves whatever was already written in place.
package dirsync

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// EventKind identifies a progress event.
type EventKind int

const (
	// EventDir is emitted when a source directory is entered.
	EventDir EventKind = iota
	// EventMissing is emitted when the source root does not exist.
	EventMissing
	// EventFile is emitted after a file has been copied.
	EventFile
	// EventSkip is emitted when an existing file is left alone (PolicySkip).
	EventSkip
)

// Event reports sync progress. Path is the source directory for EventDir
// and EventMissing, and the destination file for EventFile and EventSkip.
type Event struct {
	Kind EventKind
	Path string
}

// Options control a Sync.
type Options struct {
	Policy Policy

	// Progress, if set, is called synchronously for every event.
	Progress func(Event)

	// DryRun walks the source and reports what would be copied without
	// creating directories or writing files.
	DryRun bool
}

func (o Options) emit(kind EventKind, path string) {
	if o.Progress != nil {
		o.Progress(Event{Kind: kind, Path: path})
	}
}

// Result summarizes a Sync.
type Result struct {
	SourceMissing bool
	DirsCreated   int
	FilesCopied   int
	FilesSkipped  int
	BytesCopied   int64
}

// Sync copies the tree rooted at src into dst.
//
// A missing source (or a source that is not a directory) is not an error:
// the result has SourceMissing set and dst is not touched. Any other
// failure aborts the sync and is returned with the offending path. Under
// PolicyFail an existing destination file yields an error satisfying
// errors.Is(err, fs.ErrExist).
func Sync(src, dst string, opts Options) (Result, error) {
	var res Result

	info, err := os.Stat(src)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("reading source %s: %w", src, err)
	}
	if err != nil || !info.IsDir() {
		opts.emit(EventMissing, src)
		res.SourceMissing = true
		return res, nil
	}

	err = syncDir(src, dst, opts, &res)
	return res, err
}

func syncDir(src, dst string, opts Options, res *Result) error {
	opts.emit(EventDir, src)

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("listing %s: %w", src, err)
	}

	if err := ensureDir(dst, opts.DryRun, res); err != nil {
		return err
	}

	var subdirs []string
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			subdirs = append(subdirs, entry.Name())
		case entry.Type().IsRegular():
			if err := syncFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()), opts, res); err != nil {
				return err
			}
		}
		// symlinks, sockets and devices are not part of a plugin bundle
	}

	for _, name := range subdirs {
		if err := syncDir(filepath.Join(src, name), filepath.Join(dst, name), opts, res); err != nil {
			return err
		}
	}
	return nil
}

func ensureDir(dst string, dryRun bool, res *Result) error {
	info, err := os.Stat(dst)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("creating %s: not a directory", dst)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", dst, err)
	}

	res.DirsCreated++
	if dryRun {
		return nil
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	return nil
}

func syncFile(src, dst string, opts Options, res *Result) error {
	if opts.DryRun {
		if _, err := os.Lstat(dst); err == nil {
			switch opts.Policy {
			case PolicySkip:
				res.FilesSkipped++
				opts.emit(EventSkip, dst)
				return nil
			case PolicyFail:
				return fmt.Errorf("copying %s: %w", dst, &fs.PathError{Op: "open", Path: dst, Err: fs.ErrExist})
			}
		}
		res.FilesCopied++
		opts.emit(EventFile, dst)
		return nil
	}

	n, err := copyFile(src, dst, opts.Policy)
	if opts.Policy == PolicySkip && errors.Is(err, fs.ErrExist) {
		res.FilesSkipped++
		opts.emit(EventSkip, dst)
		return nil
	}
	if err != nil {
		return fmt.Errorf("copying %s: %w", dst, err)
	}

	res.FilesCopied++
	res.BytesCopied += n
	opts.emit(EventFile, dst)
	return nil
}

// copyFile copies src to dst. Unless policy is PolicyOverwrite, dst is
// created exclusively so an existing file surfaces as fs.ErrExist.
func copyFile(src, dst string, policy Policy) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = srcFile.Close() }()

	info, err := srcFile.Stat()
	if err != nil {
		return 0, err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if policy == PolicyOverwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	dstFile, err := os.OpenFile(dst, flags, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(dstFile, srcFile)
	if err != nil {
		_ = dstFile.Close()
		_ = os.Remove(dst)
		return 0, err
	}

	if written != info.Size() {
		_ = dstFile.Close()
		_ = os.Remove(dst)
		return 0, fmt.Errorf("incomplete copy: expected %d bytes, wrote %d", info.Size(), written)
	}

	// Explicitly close to flush writes before reporting success
	if err := dstFile.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("closing destination file: %w", err)
	}

	return written, nil
}
