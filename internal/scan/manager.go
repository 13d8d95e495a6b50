package scan

import (
	"context"
	"fmt"
	"io"

	"github.com/CartoonFan/loudgain/internal/model"
	"github.com/CartoonFan/loudgain/internal/report"
)

// ProgressLevel indicates the severity of a status message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelWarning
	LevelError
)

// ProgressEvent is a user-facing status line.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Index and Total locate the file being scanned; Total is 0 for
	// events that are not about measuring.
	Index int
	Total int
}

// Options is the run-wide configuration of a Manager.
type Options struct {
	// Album folds the album aggregate into every result and prints the
	// album summary after the last file.
	Album bool

	// NoClip lowers gains that would clip.
	NoClip bool

	// WarnClip reports files whose gains would clip.
	WarnClip bool

	// PreGain is added to every track and album gain, in dB.
	PreGain float64

	// TagMode selects what happens to the tags of each file.
	TagMode model.TagMode

	// Output selects the report format.
	Output report.Mode

	// Quiet drops Info status lines.
	Quiet bool
}

// Analyzer measures files and derives ReplayGain values. Measure failures
// are the analyzer's to log; TrackResult reports false for such files.
type Analyzer interface {
	Init(n int) error
	Measure(ctx context.Context, path string, index int)
	TrackResult(index int, preGain float64) (model.ScanResult, bool)
	FoldAlbum(res model.ScanResult, preGain float64) model.ScanResult
	Close() error
}

// TagDispatcher applies a tag mode to one file.
type TagDispatcher interface {
	Dispatch(ctx context.Context, res model.ScanResult, mode model.TagMode) error
}

// Manager coordinates one loudgain run.
type Manager struct {
	opts     Options
	analyzer Analyzer
	tags     TagDispatcher
	out      io.Writer

	onProgress func(ProgressEvent)
}

// NewManager creates a new Manager writing reports to out.
func NewManager(opts Options, analyzer Analyzer, tags TagDispatcher, out io.Writer, onProgress func(ProgressEvent)) *Manager {
	if out == nil {
		out = io.Discard
	}
	return &Manager{
		opts:       opts,
		analyzer:   analyzer,
		tags:       tags,
		out:        out,
		onProgress: onProgress,
	}
}

// Run measures files and then reports on each of them in order.
//
// The analyzer is initialised before the first file and closed exactly
// once when Run returns. Files are processed sequentially; cancelling ctx
// makes the remaining measurements fail, which skips those files.
func (m *Manager) Run(ctx context.Context, files []string) (err error) {
	if err := m.analyzer.Init(len(files)); err != nil {
		return fmt.Errorf("init analyzer: %w", err)
	}
	defer func() {
		if cerr := m.analyzer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for i, file := range files {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Scanning '%s'...", file),
			Level:   LevelInfo,
			Index:   i,
			Total:   len(files),
		})
		m.analyzer.Measure(ctx, file, i)
	}

	if header := report.Header(m.opts.Output); header != "" {
		if _, err := io.WriteString(m.out, header); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	for i := range files {
		if err := m.processFile(ctx, i, i == len(files)-1); err != nil {
			return err
		}
	}
	return nil
}

// processFile runs the per-file pipeline for slot i.
func (m *Manager) processFile(ctx context.Context, i int, final bool) error {
	res, ok := m.analyzer.TrackResult(i, m.opts.PreGain)
	if !ok {
		return nil
	}

	if m.opts.Album {
		res = m.analyzer.FoldAlbum(res, m.opts.PreGain)
	}

	res, willClip := GuardClip(res, m.opts.NoClip)

	if err := m.tags.Dispatch(ctx, res, m.opts.TagMode); err != nil {
		m.progress(ProgressEvent{Message: err.Error(), Level: LevelError})
	}

	if _, err := io.WriteString(m.out, report.Render(res, m.opts.Output, final, m.opts.Album)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if m.opts.WarnClip && willClip {
		m.progress(ProgressEvent{Message: "The track will clip", Level: LevelWarning})
	}
	return nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.opts.Quiet && event.Level == LevelInfo {
		return
	}
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
