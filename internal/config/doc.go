// Package config provides configuration management for loudgain.
//
// This package handles:
//   - Loading and saving settings from YAML files
//   - Default configuration values
//   - Validation of values that would break a run
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// ffmpeg/ffprobe/vorbiscomment from $PATH
//	// -18 LUFS reference loudness
//	// ID3v2.4 tags, cache disabled
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Malformed YAML; a missing file yields defaults
//	}
//
// Command-line flags override loaded values; call Validate afterwards.
package config
