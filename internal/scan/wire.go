package scan

import (
	"io"
	"log/slog"

	"github.com/CartoonFan/loudgain/internal/audio"
	"github.com/CartoonFan/loudgain/internal/config"
	"github.com/CartoonFan/loudgain/internal/loudness"
	"github.com/CartoonFan/loudgain/internal/model"
)

// NewDefaultManager wires a Manager to a loudness.Analyzer measuring with
// meter and to the MP3, FLAC and Vorbis tag writers, configured from
// settings.
//
// TagForceRecalculate makes the analyzer ignore cached measurements.
// A zero reference loudness means loudness.DefaultReferenceLoudness, both
// for the gains and for the reference tag.
func NewDefaultManager(settings *config.Settings, meter loudness.Meter, opts Options, out io.Writer, onProgress func(ProgressEvent), logger *slog.Logger) *Manager {
	reference := settings.ReferenceLoudness
	if reference == 0 {
		reference = loudness.DefaultReferenceLoudness
	}

	analyzer := loudness.NewAnalyzer(meter, loudness.Options{
		ReferenceLoudness: reference,
		CachePath:         settings.CachePath,
		Refresh:           opts.TagMode == model.TagForceRecalculate,
	}, logger)

	dispatcher := audio.NewDispatcher(audio.WriteOptions{
		Album:             opts.Album,
		Unit:              settings.GainUnit,
		Lowercase:         settings.LowercaseTags,
		Strip:             settings.StripTags,
		ID3v2Version:      settings.ID3v2Version,
		ReferenceLoudness: reference,
	}, audio.DefaultWriters(settings.VorbisCommentPath, logger))

	return NewManager(opts, analyzer, dispatcher, out, onProgress)
}
