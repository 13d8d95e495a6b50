// Package ioutils provides small file system helpers.
//
// # Directories
//
//	// Ensure the cache directory exists
//	err := ioutils.EnsureDir("/home/user/.cache/loudgain")
//
// # ID3v1 Trailers
//
// MP3 files may carry a 128-byte ID3v1 tag at the very end. The ID3v2
// writer leaves it alone; StripID3v1 removes it when tag stripping is
// requested:
//
//	removed, err := ioutils.StripID3v1("/music/01 Intro.mp3")
package ioutils
