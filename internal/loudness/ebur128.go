package loudness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

var (
	integratedPattern = regexp.MustCompile(`(?m)^\s*I:\s+(\S+)\s+LUFS`)
	rangePattern      = regexp.MustCompile(`(?m)^\s*LRA:\s+(\S+)\s+LU\b`)
	peakPattern       = regexp.MustCompile(`(?m)^\s*Peak:\s+(\S+)\s+dBFS`)
	durationPattern   = regexp.MustCompile(`Duration:\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
)

// FFmpegMeter measures files with ffprobe and ffmpeg's ebur128 filter.
type FFmpegMeter struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
}

// NewFFmpegMeter creates a meter running the given binaries. Empty paths
// fall back to "ffmpeg" and "ffprobe" from $PATH.
func NewFFmpegMeter(ffmpegPath, ffprobePath string, logger *slog.Logger) *FFmpegMeter {
	ffmpegPath = strings.TrimSpace(ffmpegPath)
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	ffprobePath = strings.TrimSpace(ffprobePath)
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegMeter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, logger: logger}
}

// Measure probes the codec and runs a full ebur128 pass over the file.
//
// If ffprobe fails the codec is identified from the file signature
// instead, and the duration is taken from ffmpeg's input banner.
func (m *FFmpegMeter) Measure(ctx context.Context, path string) (Measurement, error) {
	if strings.TrimSpace(path) == "" {
		return Measurement{}, errors.New("measure: empty path")
	}

	codec, duration, err := probe(ctx, m.ffprobe, path)
	if err != nil {
		m.logger.Debug("ffprobe failed, identifying codec from signature", "file", path, "error", err)
		codec, err = identifyCodec(path)
		if err != nil {
			return Measurement{}, err
		}
	}

	args := []string{
		"-hide_banner", "-nostats", "-nostdin",
		"-i", path,
		"-vn", "-sn", "-dn",
		"-af", "ebur128=peak=sample:framelog=verbose",
		"-f", "null", "-",
	}
	m.logger.Debug("running ffmpeg", "file", path, "args", strings.Join(args, " "))

	cmd := commandContext(ctx, m.ffmpeg, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Measurement{}, fmt.Errorf("ffmpeg ebur128: %w: %s", err, lastLine(string(output)))
	}

	res, err := parseSummary(string(output))
	if err != nil {
		return Measurement{}, err
	}
	if duration == 0 {
		duration = parseBannerDuration(string(output))
	}

	res.Path = path
	res.Codec = codec
	res.Duration = duration
	return res, nil
}

// parseSummary extracts integrated loudness, loudness range and sample
// peak from the last "Summary:" section of ffmpeg's ebur128 output.
func parseSummary(output string) (Measurement, error) {
	idx := strings.LastIndex(output, "Summary:")
	if idx < 0 {
		return Measurement{}, errors.New("ebur128: no summary in ffmpeg output")
	}
	summary := output[idx:]

	integrated, err := matchFloat(integratedPattern, summary)
	if err != nil {
		return Measurement{}, fmt.Errorf("ebur128 integrated loudness: %w", err)
	}
	if math.IsNaN(integrated) || math.IsInf(integrated, 0) {
		return Measurement{}, fmt.Errorf("ebur128 integrated loudness: not finite (%v)", integrated)
	}

	lra, err := matchFloat(rangePattern, summary)
	if err != nil {
		return Measurement{}, fmt.Errorf("ebur128 loudness range: %w", err)
	}
	if math.IsNaN(lra) || math.IsInf(lra, 0) {
		lra = 0
	}

	peak, err := matchFloat(peakPattern, summary)
	if err != nil {
		return Measurement{}, fmt.Errorf("ebur128 sample peak: %w", err)
	}

	return Measurement{
		Integrated: integrated,
		Range:      lra,
		Peak:       dbfsToLinear(peak),
	}, nil
}

func matchFloat(re *regexp.Regexp, text string) (float64, error) {
	matches := re.FindStringSubmatch(text)
	if len(matches) < 2 {
		return 0, errors.New("value not found")
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(matches[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", matches[1], err)
	}
	return value, nil
}

func parseBannerDuration(output string) time.Duration {
	matches := durationPattern.FindStringSubmatch(output)
	if len(matches) < 4 {
		return 0
	}
	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.ParseFloat(matches[3], 64)
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
}

func lastLine(output string) string {
	output = strings.TrimSpace(output)
	if idx := strings.LastIndex(output, "\n"); idx >= 0 {
		return output[idx+1:]
	}
	return output
}

func stderrOf(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return ""
}
