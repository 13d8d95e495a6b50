// Package scan runs the loudgain pipeline over a list of files.
//
// # Manager
//
// The Manager drives one run in two passes:
//
//  1. Measure every file, in argument order
//  2. For each file: take the track result, fold in the album aggregate
//     (optional), apply clip prevention, dispatch tag changes and render
//     the report
//
// Measuring everything first means album values are final before the
// first file is tagged.
//
// # Basic Usage
//
//	manager := scan.NewManager(scan.Options{
//	    Album:    true,
//	    WarnClip: true,
//	    TagMode:  model.TagWrite,
//	}, analyzer, dispatcher, os.Stdout, func(event scan.ProgressEvent) {
//	    fmt.Fprintln(os.Stderr, event.Message)
//	})
//
//	if err := manager.Run(ctx, files); err != nil {
//	    log.Fatal(err)
//	}
//
// # Progress Tracking
//
// Status lines are reported via a callback function that receives
// ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Warning, Error
//	    Index   int
//	    Total   int
//	}
//
// Options.Quiet drops Info events. Warnings and errors are always
// reported.
//
// # Failures
//
// A file that cannot be measured is skipped without a status line. Tag
// dispatch failures are reported and the run continues with the next
// file. Only analyzer initialisation and report write errors end a run.
package scan
