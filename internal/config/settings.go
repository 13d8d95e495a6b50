package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds all configuration options.
type Settings struct {
	// External tools
	FFmpegPath        string `yaml:"ffmpeg_path"`
	FFprobePath       string `yaml:"ffprobe_path"`
	VorbisCommentPath string `yaml:"vorbiscomment_path"`

	// ReplayGain
	ReferenceLoudness float64 `yaml:"reference_loudness"` // LUFS
	GainUnit          string  `yaml:"gain_unit"`

	// MP3 tag settings
	ID3v2Version  int  `yaml:"id3v2_version"` // 3 or 4
	LowercaseTags bool `yaml:"lowercase_tags"`
	StripTags     bool `yaml:"strip_tags"`

	// CachePath is the sqlite file holding previous measurements.
	// Empty disables the cache.
	CachePath string `yaml:"cache_path"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text, json, auto
	LogFile   string `yaml:"log_file"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		FFmpegPath:        "ffmpeg",
		FFprobePath:       "ffprobe",
		VorbisCommentPath: "vorbiscomment",

		ReferenceLoudness: -18,
		GainUnit:          "dB",

		ID3v2Version:  4,
		LowercaseTags: false,
		StripTags:     false,

		LogLevel:  "warn",
		LogFormat: "auto",
	}
}

// DefaultPath returns the default settings file location,
// $XDG_CONFIG_HOME/loudgain/config.yaml or its platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "loudgain", "config.yaml")
}

// Load reads settings from a YAML file.
//
// A missing file is not an error: defaults are returned. Empty values in
// the file are backfilled with defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	settings.applyDefaults()
	return settings, nil
}

func (s *Settings) applyDefaults() {
	def := DefaultSettings()
	if s.FFmpegPath == "" {
		s.FFmpegPath = def.FFmpegPath
	}
	if s.FFprobePath == "" {
		s.FFprobePath = def.FFprobePath
	}
	if s.VorbisCommentPath == "" {
		s.VorbisCommentPath = def.VorbisCommentPath
	}
	if s.ReferenceLoudness == 0 {
		s.ReferenceLoudness = def.ReferenceLoudness
	}
	if s.GainUnit == "" {
		s.GainUnit = def.GainUnit
	}
	if s.ID3v2Version == 0 {
		s.ID3v2Version = def.ID3v2Version
	}
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
	if s.LogFormat == "" {
		s.LogFormat = def.LogFormat
	}
}

// Validate reports settings that cannot be used.
func (s *Settings) Validate() error {
	var errs []error
	if s.ID3v2Version != 3 && s.ID3v2Version != 4 {
		errs = append(errs, fmt.Errorf("id3v2_version: must be 3 or 4, got %d", s.ID3v2Version))
	}
	if math.IsNaN(s.ReferenceLoudness) || math.IsInf(s.ReferenceLoudness, 0) {
		errs = append(errs, errors.New("reference_loudness: must be finite"))
	}
	switch s.LogFormat {
	case "text", "json", "auto":
	default:
		errs = append(errs, fmt.Errorf("log_format: unsupported value %q", s.LogFormat))
	}
	return errors.Join(errs...)
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
