package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/CartoonFan/loudgain/internal/model"
)

// Errors reported by Dispatch for requests that cannot be honoured.
// The run continues after any of them.
var (
	ErrUnsupportedFileType      = errors.New("file type not supported")
	ErrAPEUnsupported           = errors.New("APEv2 tags are not supported")
	ErrVorbisCommentUnsupported = errors.New("Vorbis Comment tags are not supported")
	ErrInvalidTagMode           = errors.New("invalid tag mode")
)

// Dispatcher routes a scan result to the tag writer for its codec.
//
// The writers table is the single definition of which codecs can be
// tagged; a codec without an entry is unsupported for both delete and
// write.
type Dispatcher struct {
	writers map[model.Codec]TagWriter
	opts    WriteOptions
}

// NewDispatcher creates a Dispatcher using the given writers table.
func NewDispatcher(opts WriteOptions, writers map[model.Codec]TagWriter) *Dispatcher {
	return &Dispatcher{writers: writers, opts: opts}
}

// DefaultWriters returns the writers for MP3, FLAC and Ogg Vorbis.
func DefaultWriters(vorbisCommentBinary string, logger *slog.Logger) map[model.Codec]TagWriter {
	return map[model.Codec]TagWriter{
		model.CodecMP3:    NewID3Writer(logger),
		model.CodecFLAC:   NewFLACWriter(logger),
		model.CodecVorbis: NewVorbisWriter(vorbisCommentBinary, logger),
	}
}

// Dispatch applies mode to the tags of res.File.
//
// Skip, Check and ForceRecalculate never touch the file. Delete clears
// ReplayGain tags; Write clears then writes them. The APE and Vorbis
// Comment modes always fail with their sentinel error, whatever the codec.
// Clear and write failures are returned wrapped with the codec name.
func (d *Dispatcher) Dispatch(ctx context.Context, res model.ScanResult, mode model.TagMode) error {
	switch mode {
	case model.TagSkip, model.TagCheck, model.TagForceRecalculate:
		return nil

	case model.TagDelete:
		w, ok := d.writers[res.Codec]
		if !ok {
			return ErrUnsupportedFileType
		}
		opts := d.optsFor(mode)
		if err := w.Clear(ctx, res, opts); err != nil {
			return fmt.Errorf("clear %s tags: %w", res.Codec, err)
		}
		return nil

	case model.TagWrite:
		w, ok := d.writers[res.Codec]
		if !ok {
			return ErrUnsupportedFileType
		}
		opts := d.optsFor(mode)
		if err := w.Clear(ctx, res, opts); err != nil {
			return fmt.Errorf("clear %s tags: %w", res.Codec, err)
		}
		if err := w.Write(ctx, res, opts); err != nil {
			return fmt.Errorf("write %s tags: %w", res.Codec, err)
		}
		return nil

	case model.TagApeUnsupported:
		return ErrAPEUnsupported

	case model.TagVorbisCommentUnsupported:
		// Reported even for Vorbis files, which TagWrite handles.
		return ErrVorbisCommentUnsupported

	default:
		return ErrInvalidTagMode
	}
}

func (d *Dispatcher) optsFor(mode model.TagMode) WriteOptions {
	opts := d.opts
	opts.Mode = mode.Char()
	return opts
}
