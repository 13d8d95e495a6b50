// Package loudness measures EBU R128 loudness and turns the measurements
// into ReplayGain values.
//
// The measuring itself is done by ffmpeg's ebur128 filter; this package
// only runs the tools, parses their output and keeps the results for the
// length of a run.
//
// # Analyzer
//
// Analyzer holds one measurement slot per input file:
//
//	a := loudness.NewAnalyzer(loudness.NewFFmpegMeter("ffmpeg", "ffprobe", logger),
//	    loudness.Options{ReferenceLoudness: -18}, logger)
//	if err := a.Init(len(files)); err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	for i, f := range files {
//	    a.Measure(ctx, f, i)
//	}
//	res, ok := a.TrackResult(0, 0)
//
// A file whose measurement fails leaves an empty slot and TrackResult
// reports false for it.
//
// # Album
//
// The album aggregate covers every measured file. Integrated loudness is
// the duration-weighted energy mean of the track values, loudness range
// and peak are the maxima.
//
// # Cache
//
// With Options.CachePath set, measurements are stored in a SQLite
// database keyed on path, size and modification time, so unchanged files
// are not decoded again. Options.Refresh skips cache reads.
package loudness
