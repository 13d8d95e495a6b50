package report

import (
	"fmt"
	"strings"

	"github.com/CartoonFan/loudgain/internal/model"
)

// Mode selects the output format for a run.
type Mode int

const (
	// Human prints a readable block per file.
	Human Mode = iota

	// Tabular prints tab-separated rows.
	Tabular
)

// peakScale converts a linear peak to the 16-bit amplitude mp3gain reports.
const peakScale = 32768.0

const tabularHeader = "File\tMP3 gain\tdB gain\tMax Amplitude\tMax global_gain\tMin global_gain\n"

// Header returns the line printed once before any file, or "" for modes
// without one.
func Header(mode Mode) string {
	if mode == Tabular {
		return tabularHeader
	}
	return ""
}

// Render formats one result. When final and album are both true the album
// summary is appended after the track.
func Render(res model.ScanResult, mode Mode, final, album bool) string {
	var sb strings.Builder
	withAlbum := final && album

	switch mode {
	case Tabular:
		writeRow(&sb, res.File, res.TrackGain, res.TrackPeak)
		if withAlbum {
			writeRow(&sb, "Album", res.AlbumGain, res.AlbumPeak)
		}
	default:
		fmt.Fprintf(&sb, "\nTrack: %s\n", res.File)
		writeBlock(&sb, res.TrackLoudness, res.TrackLoudnessRange, res.TrackGain, res.TrackPeak)
		if withAlbum {
			sb.WriteString("\nAlbum:\n")
			writeBlock(&sb, res.AlbumLoudness, res.AlbumLoudnessRange, res.AlbumGain, res.AlbumPeak)
		}
	}

	return sb.String()
}

// writeRow writes a tabular row. The MP3 gain and global_gain columns
// are not computed and always print 0.
func writeRow(sb *strings.Builder, name string, gain, peak float64) {
	fmt.Fprintf(sb, "%s\t%d\t%.2f\t%.6f\t%d\t%d\n", name, 0, gain, peak*peakScale, 0, 0)
}

func writeBlock(sb *strings.Builder, loudness, loudnessRange, gain, peak float64) {
	fmt.Fprintf(sb, " Loudness: %8.2f LUFS\n", loudness)
	fmt.Fprintf(sb, " Range:    %8.2f LU\n", loudnessRange)
	fmt.Fprintf(sb, " Gain:     %8.2f dB\n", gain)
	fmt.Fprintf(sb, " Peak:     %8.6f\n", peak)
}
