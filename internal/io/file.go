package ioutils

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// id3v1Size is the fixed size of an ID3v1 tag, including the "TAG" marker.
const id3v1Size = 128

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/home/user/.cache/loudgain")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func hasID3v1(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() < id3v1Size {
		return false, nil
	}

	marker := make([]byte, 3)
	if _, err := f.ReadAt(marker, info.Size()-id3v1Size); err != nil && err != io.EOF {
		return false, err
	}
	return bytes.Equal(marker, []byte("TAG")), nil
}

// StripID3v1 removes a trailing ID3v1 tag from the file, if present.
//
// The file is truncated in place. Returns true if a tag was removed.
//
// Example:
//
//	removed, err := StripID3v1("/music/01 Intro.mp3")
func StripID3v1(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false, err
	}
	defer f.Close()

	found, err := hasID3v1(f)
	if err != nil || !found {
		return false, err
	}

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if err := f.Truncate(info.Size() - id3v1Size); err != nil {
		return false, fmt.Errorf("truncate id3v1: %w", err)
	}
	return true, nil
}
