package tui

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// audioExtensions are the file types picked up from directories.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".m4a":  true,
	".mp4":  true,
	".aac":  true,
}

// ExpandInput turns the text typed by the user into a list of files.
//
// The input is split on ';'. Each part may be a file, a directory
// (searched recursively for audio files) or a glob pattern. A leading ~
// expands to the home directory. Duplicates are dropped; the order within
// each directory is lexical.
func ExpandInput(input string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, part := range strings.Split(input, ";") {
		part = expandHome(strings.TrimSpace(part))
		if part == "" {
			continue
		}

		info, err := os.Stat(part)
		switch {
		case err == nil && info.IsDir():
			found, err := audioFilesIn(part)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
		case err == nil:
			add(part)
		default:
			matches, globErr := filepath.Glob(part)
			if globErr != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", part, globErr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no such file: %s", part)
			}
			sort.Strings(matches)
			for _, f := range matches {
				add(f)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no audio files found")
	}
	return files, nil
}

func audioFilesIn(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && audioExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	return files, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
