package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/klauspost/readahead"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sources lists the block body inputs in read order.
type sources struct {
	files []string
	stdin bool
}

// resolveSources deduplicates paths by device and inode. Every "-", and any
// path naming the same file as stdin, collapses into a single stdin input
// read after all regular files.
func resolveSources(stdin io.Reader, paths []string) (sources, error) {
	var (
		src  sources
		seen = make(map[fileKey]struct{}, len(paths))
	)

	var stdinKey fileKey

	if f, ok := stdin.(*os.File); ok {
		info, _ := f.Stat()
		stdinKey, _ = makeFileKey(info)
	}

	for _, path := range paths {
		if path == stdinSource {
			src.stdin = true

			continue
		}

		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return src, ErrReadBody.Wrap(err).With(slog.String("path", path))
		}

		info, err := os.Stat(resolved)
		if err != nil {
			return src, ErrReadBody.Wrap(err).With(slog.String("path", path))
		}

		if key, ok := makeFileKey(info); ok {
			if key == stdinKey {
				src.stdin = true

				continue
			}

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		src.files = append(src.files, resolved)
	}

	return src, nil
}

// readBody returns the concatenated contents of paths, reading stdin last.
func readBody(ctx context.Context, stdin io.Reader, paths []string) (string, error) {
	src, err := resolveSources(stdin, paths)
	if err != nil {
		return "", err
	}

	readers := make([]io.Reader, 0, len(src.files)+1)

	for _, path := range src.files {
		f, err := os.Open(path)
		if err != nil {
			return "", ErrReadBody.Wrap(err).With(slog.String("path", path))
		}
		defer f.Close()

		readers = append(readers, f)
	}

	if src.stdin && stdin != nil {
		readers = append(readers, stdin)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ra := readahead.NewReader(io.MultiReader(readers...))
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadBody.Wrap(err)
	}

	return string(data), nil
}
