package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/CartoonFan/loudgain/internal/model"
)

// ReplayGain tag keys. FLAC and Vorbis files use them as comment field
// names; MP3 files use them as TXXX frame descriptions.
const (
	TagTrackGain         = "REPLAYGAIN_TRACK_GAIN"
	TagTrackPeak         = "REPLAYGAIN_TRACK_PEAK"
	TagAlbumGain         = "REPLAYGAIN_ALBUM_GAIN"
	TagAlbumPeak         = "REPLAYGAIN_ALBUM_PEAK"
	TagReferenceLoudness = "REPLAYGAIN_REFERENCE_LOUDNESS"
)

const replayGainPrefix = "REPLAYGAIN_"

// WriteOptions holds the run-wide settings passed to every tag writer.
//
// Lowercase, Strip and ID3v2Version only affect MP3 files.
type WriteOptions struct {
	// Album adds album gain and peak tags.
	Album bool

	// Mode is the --tag-mode character that selected the write.
	Mode byte

	// Unit is appended to gain values, normally "dB".
	Unit string

	// Lowercase writes replaygain_* TXXX descriptions in lowercase.
	Lowercase bool

	// Strip removes ID3v1 trailers.
	Strip bool

	// ID3v2Version is 3 or 4.
	ID3v2Version int

	// ReferenceLoudness is the target loudness in LUFS.
	ReferenceLoudness float64
}

// TagWriter clears and writes ReplayGain tags for one codec.
//
// Clear must remove every ReplayGain field and leave other metadata
// alone. Write adds fresh fields without removing existing ones, so
// callers clear first.
type TagWriter interface {
	Clear(ctx context.Context, res model.ScanResult, opts WriteOptions) error
	Write(ctx context.Context, res model.ScanResult, opts WriteOptions) error
}

// tagField is one key/value pair to be written.
type tagField struct {
	Key   string
	Value string
}

// replayGainFields returns the fields to write for a result, in a stable
// order: track gain, track peak, album gain, album peak, reference.
func replayGainFields(res model.ScanResult, opts WriteOptions) []tagField {
	unit := opts.Unit
	if unit == "" {
		unit = "dB"
	}

	fields := []tagField{
		{TagTrackGain, fmt.Sprintf("%.2f %s", res.TrackGain, unit)},
		{TagTrackPeak, fmt.Sprintf("%.6f", res.TrackPeak)},
	}
	if opts.Album && res.HasAlbum {
		fields = append(fields,
			tagField{TagAlbumGain, fmt.Sprintf("%.2f %s", res.AlbumGain, unit)},
			tagField{TagAlbumPeak, fmt.Sprintf("%.6f", res.AlbumPeak)},
		)
	}
	fields = append(fields, tagField{TagReferenceLoudness, fmt.Sprintf("%.2f LUFS", opts.ReferenceLoudness)})
	return fields
}

// isReplayGainKey reports whether a field name or TXXX description is a
// ReplayGain key, in any letter case.
func isReplayGainKey(key string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(key)), replayGainPrefix)
}

// filterComments drops ReplayGain entries from KEY=value comment lines.
func filterComments(comments []string) []string {
	kept := make([]string, 0, len(comments))
	for _, c := range comments {
		key, _, _ := strings.Cut(c, "=")
		if isReplayGainKey(key) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
