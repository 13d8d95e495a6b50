package audio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bogem/id3v2"

	ioutils "github.com/CartoonFan/loudgain/internal/io"
	"github.com/CartoonFan/loudgain/internal/model"
)

// ID3 frame IDs touched by the MP3 writer.
const (
	frameUserText = "TXXX"
	frameRVA2     = "RVA2"
)

// ID3Writer writes ReplayGain tags to MP3 files.
//
// ID3Writer uses the id3v2 library. ReplayGain values are stored as TXXX
// (user defined text) frames, one per key:
//
//	TXXX:REPLAYGAIN_TRACK_GAIN = "-3.76 dB"
//	TXXX:REPLAYGAIN_TRACK_PEAK = "0.988525"
//
// Clearing removes those frames and any RVA2 (relative volume) frames.
// Other TXXX frames survive.
//
// Example:
//
//	w := NewID3Writer(logger)
//	opts := WriteOptions{ID3v2Version: 4, Unit: "dB"}
//	if err := w.Clear(ctx, res, opts); err != nil {
//	    return err
//	}
//	err := w.Write(ctx, res, opts)
type ID3Writer struct {
	logger *slog.Logger
}

// NewID3Writer creates a new ID3Writer.
func NewID3Writer(logger *slog.Logger) *ID3Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ID3Writer{logger: logger}
}

// Clear removes ReplayGain TXXX frames and RVA2 frames from the file.
func (w *ID3Writer) Clear(ctx context.Context, res model.ScanResult, opts WriteOptions) error {
	tag, err := id3v2.Open(res.File, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	setVersion(tag, opts.ID3v2Version)

	kept := make([]id3v2.Framer, 0)
	removed := 0
	for _, f := range tag.GetFrames(frameUserText) {
		udtf, ok := f.(id3v2.UserDefinedTextFrame)
		if ok && isReplayGainKey(udtf.Description) {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	tag.DeleteFrames(frameUserText)
	for _, f := range kept {
		tag.AddFrame(frameUserText, f)
	}
	tag.DeleteFrames(frameRVA2)

	if err := tag.Save(); err != nil {
		return err
	}
	w.logger.Debug("cleared id3 replaygain frames", "file", res.File, "removed", removed)

	return w.strip(res.File, opts)
}

// Write adds ReplayGain TXXX frames to the file.
//
// The tag is saved as ID3v2.3 or ID3v2.4 depending on opts.ID3v2Version.
// With opts.Lowercase the frame descriptions are written as
// replaygain_track_gain etc., which some players expect.
func (w *ID3Writer) Write(ctx context.Context, res model.ScanResult, opts WriteOptions) error {
	tag, err := id3v2.Open(res.File, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	setVersion(tag, opts.ID3v2Version)

	for _, field := range replayGainFields(res, opts) {
		desc := field.Key
		if opts.Lowercase {
			desc = strings.ToLower(desc)
		}
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    textEncoding(tag),
			Description: desc,
			Value:       field.Value,
		})
	}

	if err := tag.Save(); err != nil {
		return err
	}
	w.logger.Debug("wrote id3 replaygain frames", "file", res.File, "version", tag.Version())

	return w.strip(res.File, opts)
}

func (w *ID3Writer) strip(path string, opts WriteOptions) error {
	if !opts.Strip {
		return nil
	}
	removed, err := ioutils.StripID3v1(path)
	if err != nil {
		return fmt.Errorf("strip id3v1: %w", err)
	}
	if removed {
		w.logger.Debug("stripped id3v1 tag", "file", path)
	}
	return nil
}

// setVersion applies the requested ID3v2 version, defaulting to 2.4.
func setVersion(tag *id3v2.Tag, version int) {
	if version == 3 {
		tag.SetVersion(3)
		return
	}
	tag.SetVersion(4)
}

// textEncoding returns UTF-8 for ID3v2.4 and ISO-8859-1 for ID3v2.3,
// which has no UTF-8 encoding.
func textEncoding(tag *id3v2.Tag) id3v2.Encoding {
	if tag.Version() == 4 {
		return id3v2.EncodingUTF8
	}
	return id3v2.EncodingISO
}
