package model

import "strings"

// Codec identifies the audio encoding of a scanned file.
type Codec int

const (
	// CodecUnknown is any encoding loudgain has no tag writer for.
	CodecUnknown Codec = iota

	// CodecMP3 is MPEG-1/2 Layer III, tagged with ID3v2.
	CodecMP3

	// CodecFLAC is native FLAC, tagged with a VORBIS_COMMENT metadata block.
	CodecFLAC

	// CodecVorbis is Ogg Vorbis, tagged with Vorbis comments.
	CodecVorbis

	// CodecAAC is AAC in an MP4 or ADTS container.
	CodecAAC
)

// String returns a short lowercase name for the codec.
func (c Codec) String() string {
	switch c {
	case CodecMP3:
		return "mp3"
	case CodecFLAC:
		return "flac"
	case CodecVorbis:
		return "vorbis"
	case CodecAAC:
		return "aac"
	default:
		return "unknown"
	}
}

// CodecFromName maps an ffprobe codec_name to a Codec.
//
// Matching is case-insensitive. Unrecognized names map to CodecUnknown.
func CodecFromName(name string) Codec {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mp3", "mp3float":
		return CodecMP3
	case "flac":
		return CodecFLAC
	case "vorbis":
		return CodecVorbis
	case "aac", "aac_latm":
		return CodecAAC
	default:
		return CodecUnknown
	}
}

// ScanResult holds the measurement and derived ReplayGain values of one file.
//
// Track values are always populated. Album values are only meaningful when
// HasAlbum is true, which happens once album aggregation has been folded in.
//
// Gains are in dB. Peaks are linear sample amplitudes where 1.0 is full scale.
type ScanResult struct {
	// File is the path as given on the command line, used for display.
	File string

	// Codec is the encoding of the first audio stream.
	Codec Codec

	// TrackLoudness is the integrated loudness in LUFS.
	TrackLoudness float64

	// TrackLoudnessRange is the loudness range in LU.
	TrackLoudnessRange float64

	// TrackGain is the ReplayGain track gain in dB, pre-gain included.
	TrackGain float64

	// TrackPeak is the sample peak. Always > 0 for a result handed out by
	// the analyzer.
	TrackPeak float64

	// HasAlbum reports whether the album fields below are populated.
	HasAlbum bool

	AlbumLoudness      float64
	AlbumLoudnessRange float64
	AlbumGain          float64
	AlbumPeak          float64
}

// WithAlbum returns a copy of s with the album values attached.
func (s ScanResult) WithAlbum(loudness, loudnessRange, gain, peak float64) ScanResult {
	s.HasAlbum = true
	s.AlbumLoudness = loudness
	s.AlbumLoudnessRange = loudnessRange
	s.AlbumGain = gain
	s.AlbumPeak = peak
	return s
}
