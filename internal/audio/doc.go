// Package audio writes and removes ReplayGain tags in audio files.
//
// # Dispatching
//
// Dispatcher maps a tag mode and a file's codec to the right writer:
//
//	d := audio.NewDispatcher(audio.WriteOptions{
//	    Album:             true,
//	    Unit:              "dB",
//	    ID3v2Version:      4,
//	    ReferenceLoudness: -18,
//	}, audio.DefaultWriters("vorbiscomment", logger))
//
//	err := d.Dispatch(ctx, res, model.TagWrite)
//
// Writing always clears old ReplayGain fields first so stale values never
// linger next to new ones.
//
// # Writers
//
// The writers supported out of the box:
//   - MP3: ID3v2 TXXX frames via github.com/bogem/id3v2
//   - FLAC: VORBIS_COMMENT block via github.com/go-flac
//   - Ogg Vorbis: comments via the vorbiscomment tool
//
// Fields written:
//   - REPLAYGAIN_TRACK_GAIN, REPLAYGAIN_TRACK_PEAK
//   - REPLAYGAIN_ALBUM_GAIN, REPLAYGAIN_ALBUM_PEAK (album mode)
//   - REPLAYGAIN_REFERENCE_LOUDNESS
package audio
