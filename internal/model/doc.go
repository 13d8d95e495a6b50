// Package model defines the core data structures used throughout
// loudgain.
//
// # ScanResult
//
// ScanResult carries the loudness measurement of one file together with
// the ReplayGain values derived from it:
//
//	res := model.ScanResult{
//	    File:          "01 Intro.flac",
//	    Codec:         model.CodecFLAC,
//	    TrackLoudness: -14.2,
//	    TrackGain:     -3.8,
//	    TrackPeak:     0.98,
//	}
//	res = res.WithAlbum(-13.9, 7.1, -4.1, 1.02)
//
// ScanResult is a plain value. Pipeline stages that adjust it return a
// new copy instead of mutating a shared record.
//
// # Codec
//
// Codec identifies the audio encoding of a file and decides which tag
// writer applies. CodecFromName maps ffprobe codec names:
//
//	model.CodecFromName("vorbis") // CodecVorbis
//
// # TagMode
//
// TagMode selects whether ReplayGain tags are deleted, written or left
// untouched. It is parsed once from the command line:
//
//	mode := model.ParseTagMode("i") // TagWrite
package model
