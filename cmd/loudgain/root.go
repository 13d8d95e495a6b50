package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CartoonFan/loudgain/internal/config"
	"github.com/CartoonFan/loudgain/internal/logging"
	"github.com/CartoonFan/loudgain/internal/loudness"
	"github.com/CartoonFan/loudgain/internal/model"
	"github.com/CartoonFan/loudgain/internal/report"
	"github.com/CartoonFan/loudgain/internal/scan"
)

const version = "0.2.1"

// newMeter builds the loudness meter for a run.
var newMeter = func(settings *config.Settings, logger *slog.Logger) loudness.Meter {
	return loudness.NewFFmpegMeter(settings.FFmpegPath, settings.FFprobePath, logger)
}

type rootOptions struct {
	track     bool
	album     bool
	noWarn    bool
	noClip    bool
	dbGain    string
	tabular   bool
	quiet     bool
	tagMode   string
	lowercase bool
	strip     bool
	id3v2     int

	configPath string
	logLevel   string

	showVersion bool
	showUsage   bool
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "loudgain [OPTIONS] FILES...",
		Short:         "Loudness normalizer based on the EBU R128 standard",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&opts.track, "track", "r", false, "Calculate track gain only (default)")
	flags.BoolVarP(&opts.album, "album", "a", false, "Calculate album gain (and track gain)")
	flags.BoolVarP(&opts.noWarn, "clip", "c", false, "Ignore clipping warning")
	flags.BoolVarP(&opts.noClip, "noclip", "k", false, "Lower track and album gain to avoid clipping")
	flags.StringVarP(&opts.dbGain, "db-gain", "d", "0", "Apply n dB/LU pre-gain value")
	flags.BoolVarP(&opts.tabular, "output", "o", false, "Database-friendly tab-delimited list output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Don't print scanning status messages")
	flags.StringVarP(&opts.tagMode, "tag-mode", "s", "s",
		"Tag mode: d delete, i write, s skip, r recalculate (c, a, v reserved)")
	flags.BoolVarP(&opts.lowercase, "lowercase", "L", false, "Write lowercase replaygain_* MP3 tags")
	flags.BoolVarP(&opts.strip, "striptags", "S", false, "Strip ID3v1 tags from MP3 files")
	flags.IntVarP(&opts.id3v2, "id3v2version", "I", 4, "ID3v2 version for MP3 tags (3 or 4)")
	flags.StringVar(&opts.configPath, "config", "", "Configuration file path")
	flags.StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	flags.BoolVarP(&opts.showVersion, "version", "V", false, "Show version number")
	flags.BoolVarP(&opts.showUsage, "usage", "?", false, "Show this help")
	_ = flags.MarkHidden("usage")

	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions, files []string) error {
	if opts.showUsage {
		return cmd.Help()
	}
	if opts.showVersion {
		fmt.Fprintf(cmd.OutOrStdout(), "loudgain %s\n", version)
		return nil
	}

	preGain, err := parseDBGain(opts.dbGain)
	if err != nil {
		return err
	}

	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return errors.New("no input files specified (see loudgain --help)")
	}

	logger, closer := logging.New(logging.Config{
		Level:    settings.LogLevel,
		Format:   settings.LogFormat,
		FilePath: settings.LogFile,
	}, cmd.ErrOrStderr())
	defer closer.Close()

	mode := model.ParseTagMode(opts.tagMode)

	output := report.Human
	if opts.tabular {
		output = report.Tabular
	}

	status := newStatusPrinter(cmd.ErrOrStderr())
	manager := scan.NewDefaultManager(settings, newMeter(settings, logger), scan.Options{
		Album:    opts.album,
		NoClip:   opts.noClip,
		WarnClip: !opts.noWarn,
		PreGain:  preGain,
		TagMode:  mode,
		Output:   output,
		Quiet:    opts.quiet,
	}, cmd.OutOrStdout(), status.Print, logger)

	logger.Debug("starting run", "files", len(files), "tag_mode", mode.String(), "album", opts.album)
	return manager.Run(cmd.Context(), files)
}

// loadSettings reads the settings file and applies flag overrides.
func loadSettings(cmd *cobra.Command, opts *rootOptions) (*config.Settings, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("id3v2version") {
		settings.ID3v2Version = opts.id3v2
	}
	if opts.lowercase {
		settings.LowercaseTags = true
	}
	if opts.strip {
		settings.StripTags = true
	}
	if flags.Changed("log-level") {
		settings.LogLevel = opts.logLevel
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// parseDBGain parses the --db-gain value. The whole string must be a
// finite number.
func parseDBGain(value string) (float64, error) {
	gain, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid --db-gain %q: not a number", value)
	}
	if math.IsNaN(gain) || math.IsInf(gain, 0) {
		return 0, fmt.Errorf("invalid --db-gain %q: must be finite", value)
	}
	return gain, nil
}
