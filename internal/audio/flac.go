package audio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/CartoonFan/loudgain/internal/model"
)

// FLACWriter writes ReplayGain fields to the VORBIS_COMMENT block of
// FLAC files.
//
// The file is parsed with go-flac, the comment block is rewritten and the
// whole file is saved back in place. A file without a comment block gets
// a new one on Write; Clear leaves such a file untouched.
type FLACWriter struct {
	logger *slog.Logger
}

// NewFLACWriter creates a new FLACWriter.
func NewFLACWriter(logger *slog.Logger) *FLACWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FLACWriter{logger: logger}
}

// Clear removes every REPLAYGAIN_* field from the comment block.
func (w *FLACWriter) Clear(ctx context.Context, res model.ScanResult, opts WriteOptions) error {
	f, err := flac.ParseFile(res.File)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	idx, cmts, err := findVorbisComment(f)
	if err != nil {
		return err
	}
	if cmts == nil {
		return nil
	}

	before := len(cmts.Comments)
	cmts.Comments = filterComments(cmts.Comments)
	if len(cmts.Comments) == before {
		return nil
	}

	block := cmts.Marshal()
	f.Meta[idx] = &block
	if err := f.Save(res.File); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	w.logger.Debug("cleared flac replaygain fields", "file", res.File, "removed", before-len(cmts.Comments))
	return nil
}

// Write appends ReplayGain fields to the comment block, creating the
// block if the file has none.
func (w *FLACWriter) Write(ctx context.Context, res model.ScanResult, opts WriteOptions) error {
	f, err := flac.ParseFile(res.File)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	idx, cmts, err := findVorbisComment(f)
	if err != nil {
		return err
	}
	if cmts == nil {
		cmts = flacvorbis.New()
	}

	for _, field := range replayGainFields(res, opts) {
		if err := cmts.Add(field.Key, field.Value); err != nil {
			return fmt.Errorf("add %s: %w", field.Key, err)
		}
	}

	block := cmts.Marshal()
	if idx < 0 {
		f.Meta = append(f.Meta, &block)
	} else {
		f.Meta[idx] = &block
	}

	if err := f.Save(res.File); err != nil {
		return fmt.Errorf("save flac: %w", err)
	}
	w.logger.Debug("wrote flac replaygain fields", "file", res.File)
	return nil
}

// findVorbisComment returns the index and parsed content of the first
// VORBIS_COMMENT block, or -1 and nil when there is none.
func findVorbisComment(f *flac.File) (int, *flacvorbis.MetaDataBlockVorbisComment, error) {
	for idx, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return -1, nil, fmt.Errorf("parse vorbis comment: %w", err)
		}
		return idx, cmts, nil
	}
	return -1, nil, nil
}
