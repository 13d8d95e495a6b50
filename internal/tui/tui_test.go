package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CartoonFan/loudgain/internal/config"
	"github.com/CartoonFan/loudgain/internal/model"
	"github.com/CartoonFan/loudgain/internal/scan"
)

func makeTree(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestExpandInput(t *testing.T) {
	dir := makeTree(t, "b.mp3", "a.FLAC", "notes.txt", "disc2/c.ogg", "cover.jpg")

	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "directory",
			input: dir,
			want: []string{
				filepath.Join(dir, "a.FLAC"),
				filepath.Join(dir, "b.mp3"),
				filepath.Join(dir, "disc2", "c.ogg"),
			},
		},
		{
			name:  "single file of any type",
			input: filepath.Join(dir, "notes.txt"),
			want:  []string{filepath.Join(dir, "notes.txt")},
		},
		{
			name:  "glob",
			input: filepath.Join(dir, "*.mp3"),
			want:  []string{filepath.Join(dir, "b.mp3")},
		},
		{
			name:  "list without duplicates",
			input: filepath.Join(dir, "b.mp3") + " ; " + filepath.Join(dir, "*.mp3"),
			want:  []string{filepath.Join(dir, "b.mp3")},
		},
		{
			name:    "missing file",
			input:   filepath.Join(dir, "missing.flac"),
			wantErr: true,
		},
		{
			name:    "empty",
			input:   " ; ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandInput(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpandInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandInput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestModel_Toggles(t *testing.T) {
	m := newModel(config.DefaultSettings(), nil)

	opts := m.Options()
	if opts.Album || opts.NoClip || opts.TagMode != model.TagSkip || !opts.WarnClip {
		t.Fatalf("unexpected default options %+v", opts)
	}

	var tm tea.Model = m
	for _, r := range []rune{'a', 'k', 'w'} {
		tm, _ = tm.Update(altKey(r))
	}

	opts = tm.(Model).Options()
	if !opts.Album || !opts.NoClip || opts.TagMode != model.TagWrite {
		t.Errorf("options after toggles = %+v", opts)
	}
	if got := tm.(Model).textInput.Value(); got != "" {
		t.Errorf("toggle keys leaked into the input: %q", got)
	}
}

// drive runs a scan through Update until it finishes.
func drive(t *testing.T, run runFunc, files []string) Model {
	t.Helper()

	m := newModel(config.DefaultSettings(), run)
	m.files = files
	m.state = StateScanning
	cmd := m.startScan()

	var tm tea.Model = m
	for i := 0; i < 100; i++ {
		msg := cmd()
		tm, _ = tm.Update(msg)
		if _, done := msg.(ScanDoneMsg); done {
			return tm.(Model)
		}
		cmd = waitForEvent(tm.(Model).events)
	}
	t.Fatal("scan did not finish")
	return Model{}
}

func TestModel_ScanFlow(t *testing.T) {
	var gotOpts scan.Options
	run := func(ctx context.Context, files []string, opts scan.Options, out io.Writer, onProgress func(scan.ProgressEvent)) error {
		gotOpts = opts
		for i, f := range files {
			onProgress(scan.ProgressEvent{Message: fmt.Sprintf("Scanning '%s'...", f), Index: i, Total: len(files)})
		}
		onProgress(scan.ProgressEvent{Message: "The track will clip", Level: scan.LevelWarning})
		_, err := io.WriteString(out, "\nTrack: a.flac\n")
		return err
	}

	m := drive(t, run, []string{"a.flac", "b.flac"})

	if m.state != StateComplete {
		t.Fatalf("state = %v, err = %v", m.state, m.err)
	}
	if m.scanned != 2 || m.total != 2 {
		t.Errorf("progress = %d/%d, want 2/2", m.scanned, m.total)
	}
	if len(m.logs) != 3 || m.logs[2].Level != scan.LevelWarning {
		t.Errorf("logs = %+v", m.logs)
	}
	if !strings.Contains(m.report, "Track: a.flac") {
		t.Errorf("report = %q", m.report)
	}
	if gotOpts.Output != 0 || gotOpts.TagMode != model.TagSkip {
		t.Errorf("run options = %+v", gotOpts)
	}
	if !strings.Contains(m.View(), "Scanned 2 file(s)") {
		t.Errorf("view missing summary:\n%s", m.View())
	}
}

func TestModel_ScanError(t *testing.T) {
	run := func(ctx context.Context, files []string, opts scan.Options, out io.Writer, onProgress func(scan.ProgressEvent)) error {
		return errors.New("init analyzer: cache locked")
	}

	m := drive(t, run, []string{"a.mp3"})

	if m.state != StateError || m.err == nil || !strings.Contains(m.err.Error(), "cache locked") {
		t.Errorf("state = %v, err = %v", m.state, m.err)
	}
}

func TestModel_LogWindow(t *testing.T) {
	run := func(ctx context.Context, files []string, opts scan.Options, out io.Writer, onProgress func(scan.ProgressEvent)) error {
		for i := 0; i < 25; i++ {
			onProgress(scan.ProgressEvent{Message: fmt.Sprintf("event %d", i), Level: scan.LevelError})
		}
		return nil
	}

	m := drive(t, run, []string{"a.mp3"})

	if len(m.logs) != maxLogs {
		t.Fatalf("kept %d logs, want %d", len(m.logs), maxLogs)
	}
	if m.logs[maxLogs-1].Message != "event 24" {
		t.Errorf("last log = %q", m.logs[maxLogs-1].Message)
	}
}
