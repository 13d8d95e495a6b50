package audio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/CartoonFan/loudgain/internal/model"
)

var commandContext = exec.CommandContext

// VorbisWriter writes ReplayGain comments to Ogg Vorbis files.
//
// Rewriting an Ogg stream's comment header means repaginating the
// stream, so VorbisWriter drives the vorbiscomment tool from vorbis-tools:
// the current comments are listed with -l, filtered or extended, and
// written back with -w. Both directions use -e escapes so values with
// newlines survive.
type VorbisWriter struct {
	binary string
	logger *slog.Logger
}

// NewVorbisWriter creates a VorbisWriter running the given vorbiscomment
// binary ("vorbiscomment" from $PATH when empty).
func NewVorbisWriter(binary string, logger *slog.Logger) *VorbisWriter {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "vorbiscomment"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VorbisWriter{binary: binary, logger: logger}
}

// Clear removes every REPLAYGAIN_* comment.
func (w *VorbisWriter) Clear(ctx context.Context, res model.ScanResult, opts WriteOptions) error {
	comments, err := w.list(ctx, res.File)
	if err != nil {
		return err
	}
	kept := filterComments(comments)
	if len(kept) == len(comments) {
		return nil
	}
	return w.write(ctx, res.File, kept)
}

// Write appends ReplayGain comments to the existing ones.
func (w *VorbisWriter) Write(ctx context.Context, res model.ScanResult, opts WriteOptions) error {
	comments, err := w.list(ctx, res.File)
	if err != nil {
		return err
	}
	for _, field := range replayGainFields(res, opts) {
		comments = append(comments, field.Key+"="+field.Value)
	}
	return w.write(ctx, res.File, comments)
}

func (w *VorbisWriter) list(ctx context.Context, path string) ([]string, error) {
	cmd := commandContext(ctx, w.binary, "-l", "-e", path)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("vorbiscomment list: %w: %s", err, stderrOf(err))
	}

	var comments []string
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		comments = append(comments, line)
	}
	return comments, scanner.Err()
}

func (w *VorbisWriter) write(ctx context.Context, path string, comments []string) error {
	tmp, err := os.CreateTemp("", "loudgain-vorbiscomment-*.txt")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	for _, c := range comments {
		if _, err := fmt.Fprintln(tmp, c); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	cmd := commandContext(ctx, w.binary, "-w", "-e", "-c", tmp.Name(), path)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("vorbiscomment write: %w: %s", err, strings.TrimSpace(string(output)))
	}
	w.logger.Debug("rewrote vorbis comments", "file", path, "count", len(comments))
	return nil
}

func stderrOf(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return ""
}
