package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/CartoonFan/loudgain/internal/tui"
)

func main() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "loudgain-tui needs a terminal; use loudgain for scripted runs")
		os.Exit(1)
	}

	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
