package loudness

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CartoonFan/loudgain/internal/model"
)

const sampleOutput = `Input #0, flac, from 'track.flac':
  Duration: 00:03:21.50, start: 0.000000, bitrate: 904 kb/s
  Stream #0:0: Audio: flac, 44100 Hz, stereo, s16
[Parsed_ebur128_0 @ 0x55d0] t: 0.1  TARGET:-23 LUFS  M:-120.7 S:-120.7  I: -70.0 LUFS  LRA:   0.0 LU  SPK: -inf dBFS
[Parsed_ebur128_0 @ 0x55d0] t: 0.2  TARGET:-23 LUFS  M: -21.4 S:-120.7  I: -21.4 LUFS  LRA:   0.0 LU  SPK: -3.1 dBFS
[Parsed_ebur128_0 @ 0x55d0] Summary:

  Integrated loudness:
    I:         -19.1 LUFS
    Threshold: -29.5 LUFS

  Loudness range:
    LRA:         5.6 LU
    Threshold: -39.6 LUFS
    LRA low:   -23.4 LUFS
    LRA high:  -17.8 LUFS

  Sample peak:
    Peak:       -0.4 dBFS
`

func TestParseSummary(t *testing.T) {
	m, err := parseSummary(sampleOutput)
	if err != nil {
		t.Fatalf("parseSummary returned error: %v", err)
	}
	if m.Integrated != -19.1 {
		t.Errorf("Integrated = %v, want -19.1", m.Integrated)
	}
	if m.Range != 5.6 {
		t.Errorf("Range = %v, want 5.6", m.Range)
	}
	if math.Abs(m.Peak-0.954993) > 1e-6 {
		t.Errorf("Peak = %v, want ~0.954993", m.Peak)
	}
}

func TestParseSummary_Silence(t *testing.T) {
	output := `[Parsed_ebur128_0 @ 0x1] Summary:

  Integrated loudness:
    I:         -70.0 LUFS
    Threshold:   0.0 LUFS

  Loudness range:
    LRA:         0.0 LU

  Sample peak:
    Peak:       -inf dBFS
`
	m, err := parseSummary(output)
	if err != nil {
		t.Fatalf("parseSummary returned error: %v", err)
	}
	if m.Peak != 0 {
		t.Errorf("Peak = %v, want 0 for -inf dBFS", m.Peak)
	}
}

func TestParseSummary_Errors(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"no summary", "Input #0, mp3, from 'x.mp3':\n"},
		{"missing peak", "Summary:\n    I: -20.0 LUFS\n    LRA: 3.0 LU\n"},
		{"infinite loudness", "Summary:\n    I: -inf LUFS\n    LRA: 0.0 LU\n    Peak: -inf dBFS\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSummary(tt.output); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseSummary_UsesLastSummary(t *testing.T) {
	output := "Summary:\n    I: -30.0 LUFS\n    LRA: 1.0 LU\n    Peak: -6.0 dBFS\n" +
		"Summary:\n    I: -12.0 LUFS\n    LRA: 2.0 LU\n    Peak: -1.0 dBFS\n"

	m, err := parseSummary(output)
	if err != nil {
		t.Fatalf("parseSummary returned error: %v", err)
	}
	if m.Integrated != -12 || m.Range != 2 {
		t.Errorf("got %+v, want values from the last summary", m)
	}
}

func TestParseBannerDuration(t *testing.T) {
	got := parseBannerDuration(sampleOutput)
	want := 3*time.Minute + 21*time.Second + 500*time.Millisecond
	if got != want {
		t.Errorf("parseBannerDuration() = %v, want %v", got, want)
	}
	if got := parseBannerDuration("no banner"); got != 0 {
		t.Errorf("parseBannerDuration() = %v, want 0", got)
	}
}

func stubTools(t *testing.T, probeMode string) *[][]string {
	t.Helper()

	var calls [][]string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		calls = append(calls, append([]string{name}, args...))
		mode := "ffmpeg"
		if strings.Contains(filepath.Base(name), "ffprobe") {
			mode = probeMode
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("LOUDNESS_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return &calls
}

func TestFFmpegMeter_Measure(t *testing.T) {
	calls := stubTools(t, "ffprobe")

	meter := NewFFmpegMeter("", "/opt/ffmpeg/bin/ffprobe", nil)
	m, err := meter.Measure(context.Background(), "/music/track.flac")
	if err != nil {
		t.Fatalf("Measure returned error: %v", err)
	}

	if m.Codec != model.CodecFLAC {
		t.Errorf("Codec = %v, want flac", m.Codec)
	}
	if m.Duration != 180*time.Second {
		t.Errorf("Duration = %v, want 3m0s from ffprobe", m.Duration)
	}
	if m.Integrated != -19.1 || m.Path != "/music/track.flac" {
		t.Errorf("unexpected measurement %+v", m)
	}

	if len(*calls) != 2 {
		t.Fatalf("expected ffprobe and ffmpeg calls, got %d", len(*calls))
	}
	ffmpegArgs := strings.Join((*calls)[1], " ")
	if (*calls)[1][0] != "ffmpeg" || !strings.Contains(ffmpegArgs, "ebur128=peak=sample:framelog=verbose") {
		t.Errorf("unexpected ffmpeg invocation: %s", ffmpegArgs)
	}
	if !strings.HasSuffix(strings.Join((*calls)[0], " "), "-- /music/track.flac") {
		t.Errorf("unexpected ffprobe invocation: %v", (*calls)[0])
	}
}

func TestFFmpegMeter_ProbeFallback(t *testing.T) {
	stubTools(t, "failure")

	path := filepath.Join(t.TempDir(), "track.ogg")
	data := append([]byte("OggS"), make([]byte, 60)...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewFFmpegMeter("", "", nil).Measure(context.Background(), path)
	if err != nil {
		t.Fatalf("Measure returned error: %v", err)
	}
	if m.Codec != model.CodecVorbis {
		t.Errorf("Codec = %v, want vorbis from signature", m.Codec)
	}
	if m.Duration != 3*time.Minute+21*time.Second+500*time.Millisecond {
		t.Errorf("Duration = %v, want duration from ffmpeg banner", m.Duration)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("LOUDNESS_HELPER_MODE") {
	case "ffprobe":
		fmt.Println(`{"programs":[],"streams":[{"codec_name":"flac"}],"format":{"duration":"180.000000"}}`)
		os.Exit(0)
	case "ffmpeg":
		fmt.Fprint(os.Stderr, sampleOutput)
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "Invalid data found when processing input")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
