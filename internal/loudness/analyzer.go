package loudness

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/CartoonFan/loudgain/internal/model"
)

// DefaultReferenceLoudness is the ReplayGain 2.0 target in LUFS.
const DefaultReferenceLoudness = -18.0

// Options configures an Analyzer.
type Options struct {
	// ReferenceLoudness is the target loudness in LUFS.
	ReferenceLoudness float64

	// CachePath enables the measurement cache when non-empty.
	CachePath string

	// Refresh ignores cached measurements. Fresh ones are still stored.
	Refresh bool
}

// Analyzer keeps the measurements of one run and derives ReplayGain
// values from them.
//
// Analyzer is not safe for concurrent use.
type Analyzer struct {
	meter  Meter
	opts   Options
	logger *slog.Logger

	cache *Cache
	slots []*Measurement

	album     albumStats
	albumOK   bool
	albumDone bool
}

// NewAnalyzer creates an Analyzer measuring with meter.
func NewAnalyzer(meter Meter, opts Options, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ReferenceLoudness == 0 {
		opts.ReferenceLoudness = DefaultReferenceLoudness
	}
	return &Analyzer{meter: meter, opts: opts, logger: logger}
}

// Init prepares n measurement slots and opens the cache if configured.
func (a *Analyzer) Init(n int) error {
	if n < 0 {
		return fmt.Errorf("init analyzer: negative file count %d", n)
	}
	a.slots = make([]*Measurement, n)
	a.albumDone = false

	if a.opts.CachePath != "" && a.cache == nil {
		cache, err := OpenCache(a.opts.CachePath)
		if err != nil {
			return err
		}
		a.cache = cache
	}
	return nil
}

// Measure fills slot index with the measurement of path. Failures are
// logged and leave the slot empty.
func (a *Analyzer) Measure(ctx context.Context, path string, index int) {
	if index < 0 || index >= len(a.slots) {
		a.logger.Warn("measurement index out of range", "file", path, "index", index, "slots", len(a.slots))
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		a.logger.Warn("cannot stat file", "file", path, "error", err)
		return
	}

	if a.cache != nil && !a.opts.Refresh {
		m, ok, err := a.cache.Lookup(ctx, path, info)
		switch {
		case err != nil:
			a.logger.Warn("cache lookup failed", "file", path, "error", err)
		case ok:
			a.logger.Debug("using cached measurement", "file", path)
			a.slots[index] = &m
			return
		}
	}

	m, err := a.meter.Measure(ctx, path)
	if err != nil {
		a.logger.Warn("measurement failed", "file", path, "error", err)
		return
	}
	a.slots[index] = &m
	a.logger.Debug("measured file",
		"file", path,
		"codec", m.Codec.String(),
		"integrated", m.Integrated,
		"range", m.Range,
		"peak", m.Peak,
		"duration", m.Duration,
	)

	if a.cache != nil {
		if err := a.cache.Store(ctx, m, info); err != nil {
			a.logger.Warn("cache store failed", "file", path, "error", err)
		}
	}
}

// TrackResult returns the ReplayGain values of slot index. It reports
// false when the slot is empty or the file is digital silence.
func (a *Analyzer) TrackResult(index int, preGain float64) (model.ScanResult, bool) {
	if index < 0 || index >= len(a.slots) || a.slots[index] == nil {
		return model.ScanResult{}, false
	}
	m := a.slots[index]
	if math.IsNaN(m.Peak) || m.Peak <= 0 {
		a.logger.Debug("skipping silent file", "file", m.Path, "peak", m.Peak)
		return model.ScanResult{}, false
	}

	return model.ScanResult{
		File:               m.Path,
		Codec:              m.Codec,
		TrackLoudness:      m.Integrated,
		TrackLoudnessRange: m.Range,
		TrackGain:          a.opts.ReferenceLoudness - m.Integrated + preGain,
		TrackPeak:          m.Peak,
	}, true
}

// FoldAlbum attaches the album aggregate to res. The aggregate is
// computed on first use over every audible measured slot; res is
// returned unchanged when there is none.
func (a *Analyzer) FoldAlbum(res model.ScanResult, preGain float64) model.ScanResult {
	if !a.albumDone {
		measured := make([]Measurement, 0, len(a.slots))
		for _, m := range a.slots {
			if m != nil {
				measured = append(measured, *m)
			}
		}
		a.album, a.albumOK = aggregateAlbum(measured)
		a.albumDone = true
	}
	if !a.albumOK {
		return res
	}

	gain := a.opts.ReferenceLoudness - a.album.Loudness + preGain
	return res.WithAlbum(a.album.Loudness, a.album.Range, gain, a.album.Peak)
}

// Close releases the cache. It is safe to call more than once.
func (a *Analyzer) Close() error {
	if a.cache == nil {
		return nil
	}
	err := a.cache.Close()
	a.cache = nil
	if err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	return nil
}
