package loudness

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CartoonFan/loudgain/internal/model"
)

// fakeMeter returns canned measurements keyed on file base name.
type fakeMeter struct {
	results map[string]Measurement
	calls   int
}

func (f *fakeMeter) Measure(ctx context.Context, path string) (Measurement, error) {
	f.calls++
	m, ok := f.results[filepath.Base(path)]
	if !ok {
		return Measurement{}, errors.New("decode failed")
	}
	m.Path = path
	return m, nil
}

func touch(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func TestAnalyzer_TrackResult(t *testing.T) {
	dir := t.TempDir()
	paths := touch(t, dir, "a.flac", "silent.flac", "broken.mp3")

	meter := &fakeMeter{results: map[string]Measurement{
		"a.flac":      {Codec: model.CodecFLAC, Integrated: -14.24, Range: 6.2, Peak: 0.988525, Duration: time.Minute},
		"silent.flac": {Codec: model.CodecFLAC, Integrated: -70, Peak: 0, Duration: time.Minute},
	}}

	a := NewAnalyzer(meter, Options{ReferenceLoudness: -18}, nil)
	if err := a.Init(len(paths)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer a.Close()

	for i, p := range paths {
		a.Measure(context.Background(), p, i)
	}

	res, ok := a.TrackResult(0, 1.5)
	if !ok {
		t.Fatal("expected result for measured file")
	}
	if math.Abs(res.TrackGain-(-2.26)) > 1e-9 {
		t.Errorf("TrackGain = %v, want -2.26", res.TrackGain)
	}
	if res.File != paths[0] || res.Codec != model.CodecFLAC || res.TrackPeak != 0.988525 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.HasAlbum {
		t.Error("TrackResult should not carry album values")
	}

	if _, ok := a.TrackResult(1, 0); ok {
		t.Error("silent file should be skipped")
	}
	if _, ok := a.TrackResult(2, 0); ok {
		t.Error("failed measurement should be skipped")
	}
	if _, ok := a.TrackResult(7, 0); ok {
		t.Error("out of range index should be skipped")
	}
}

func TestAnalyzer_MeasureMissingFile(t *testing.T) {
	meter := &fakeMeter{results: map[string]Measurement{"gone.mp3": {Peak: 1}}}
	a := NewAnalyzer(meter, Options{}, nil)
	if err := a.Init(1); err != nil {
		t.Fatal(err)
	}

	a.Measure(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"), 0)

	if meter.calls != 0 {
		t.Errorf("meter should not run for a missing file, calls = %d", meter.calls)
	}
	if _, ok := a.TrackResult(0, 0); ok {
		t.Error("expected empty slot")
	}
}

func TestAnalyzer_FoldAlbum(t *testing.T) {
	dir := t.TempDir()
	paths := touch(t, dir, "1.flac", "2.flac", "3.flac")

	meter := &fakeMeter{results: map[string]Measurement{
		"1.flac": {Integrated: -20, Range: 4, Peak: 0.5, Duration: time.Minute},
		"2.flac": {Integrated: -14, Range: 7, Peak: 0.9, Duration: time.Minute},
	}}

	a := NewAnalyzer(meter, Options{ReferenceLoudness: -18}, nil)
	if err := a.Init(len(paths)); err != nil {
		t.Fatal(err)
	}
	for i, p := range paths {
		a.Measure(context.Background(), p, i)
	}

	track, ok := a.TrackResult(0, 0)
	if !ok {
		t.Fatal("expected result")
	}
	res := a.FoldAlbum(track, 2)

	if !res.HasAlbum {
		t.Fatal("expected album values")
	}
	if math.Abs(res.AlbumLoudness-(-16.037072)) > 1e-5 {
		t.Errorf("AlbumLoudness = %v", res.AlbumLoudness)
	}
	if math.Abs(res.AlbumGain-(-18+16.037072+2)) > 1e-5 {
		t.Errorf("AlbumGain = %v", res.AlbumGain)
	}
	if res.AlbumLoudnessRange != 7 || res.AlbumPeak != 0.9 {
		t.Errorf("unexpected album range/peak: %+v", res)
	}
	if res.TrackGain != track.TrackGain {
		t.Error("FoldAlbum should keep track values")
	}

	second, _ := a.TrackResult(1, 0)
	if got := a.FoldAlbum(second, 2); got.AlbumGain != res.AlbumGain {
		t.Errorf("album gain differs between tracks: %v vs %v", got.AlbumGain, res.AlbumGain)
	}
}

func TestAnalyzer_FoldAlbumNothingMeasured(t *testing.T) {
	a := NewAnalyzer(&fakeMeter{}, Options{}, nil)
	if err := a.Init(2); err != nil {
		t.Fatal(err)
	}

	in := model.ScanResult{File: "x", TrackGain: 1, TrackPeak: 1}
	if got := a.FoldAlbum(in, 0); got != in {
		t.Errorf("FoldAlbum() = %+v, want input unchanged", got)
	}
}

func TestAnalyzer_Cache(t *testing.T) {
	dir := t.TempDir()
	paths := touch(t, dir, "a.mp3")
	cachePath := filepath.Join(dir, "cache", "loudgain.db")

	meter := &fakeMeter{results: map[string]Measurement{
		"a.mp3": {Codec: model.CodecMP3, Integrated: -11, Range: 3, Peak: 1.1, Duration: 90 * time.Second},
	}}

	run := func(opts Options) model.ScanResult {
		t.Helper()
		a := NewAnalyzer(meter, opts, nil)
		if err := a.Init(1); err != nil {
			t.Fatalf("Init: %v", err)
		}
		defer a.Close()
		a.Measure(context.Background(), paths[0], 0)
		res, ok := a.TrackResult(0, 0)
		if !ok {
			t.Fatal("expected result")
		}
		return res
	}

	first := run(Options{CachePath: cachePath})
	if meter.calls != 1 {
		t.Fatalf("meter calls = %d, want 1", meter.calls)
	}

	cached := run(Options{CachePath: cachePath})
	if meter.calls != 1 {
		t.Errorf("cached run should not measure again, calls = %d", meter.calls)
	}
	if cached != first {
		t.Errorf("cached result %+v differs from %+v", cached, first)
	}

	run(Options{CachePath: cachePath, Refresh: true})
	if meter.calls != 2 {
		t.Errorf("refresh should measure again, calls = %d", meter.calls)
	}
}

func TestAnalyzer_InitCacheFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	a := NewAnalyzer(&fakeMeter{}, Options{CachePath: filepath.Join(blocker, "sub", "cache.db")}, nil)
	if err := a.Init(1); err == nil {
		t.Fatal("expected error when the cache directory cannot be created")
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close after failed Init: %v", err)
	}
}

func TestAnalyzer_FoldAlbumIgnoresSilence(t *testing.T) {
	dir := t.TempDir()
	paths := touch(t, dir, "music.flac", "silence.flac")

	meter := &fakeMeter{results: map[string]Measurement{
		"music.flac":   {Integrated: -14, Range: 5, Peak: 0.8, Duration: time.Minute},
		"silence.flac": {Integrated: -70, Peak: 0, Duration: time.Minute},
	}}

	a := NewAnalyzer(meter, Options{ReferenceLoudness: -18}, nil)
	if err := a.Init(len(paths)); err != nil {
		t.Fatal(err)
	}
	for i, p := range paths {
		a.Measure(context.Background(), p, i)
	}

	track, ok := a.TrackResult(0, 0)
	if !ok {
		t.Fatal("expected result")
	}
	res := a.FoldAlbum(track, 0)

	if math.Abs(res.AlbumLoudness-(-14)) > 1e-9 {
		t.Errorf("AlbumLoudness = %v, want -14", res.AlbumLoudness)
	}
	if math.Abs(res.AlbumGain-(-4)) > 1e-9 {
		t.Errorf("AlbumGain = %v, want -4", res.AlbumGain)
	}
	if res.AlbumPeak != 0.8 {
		t.Errorf("AlbumPeak = %v, want 0.8", res.AlbumPeak)
	}
}
