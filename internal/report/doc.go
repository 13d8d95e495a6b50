// Package report formats scan results for standard output.
//
// Two formats are available, selected once per run:
//
//   - Human: a multi-line block per file with loudness, range, gain and peak
//   - Tabular: a tab-separated table compatible with mp3gain's database
//     output, preceded by a single header line
//
// Both are pure functions of their inputs:
//
//	fmt.Print(report.Header(report.Tabular))
//	fmt.Print(report.Render(res, report.Tabular, isLast, doAlbum))
package report
