package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	boldred   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	grey      = color.New(color.FgHiBlack).SprintFunc()
	boldwhite = color.New(color.FgHiWhite).SprintFunc()
	warn      = color.New(color.FgYellow, color.Bold).SprintFunc()
	green     = color.New(color.FgGreen).SprintFunc()

	logLevel = 1

	stdout io.Writer = os.Stdout
)

// logInfo prints progress at -v.
func logInfo(a ...any) {
	if logLevel >= 2 {
		fmt.Fprintln(stdout, a...)
	}
}

// logVerbose prints per-file details at -vv.
func logVerbose(a ...any) {
	if logLevel >= 3 {
		fmt.Fprintln(stdout, a...)
	}
}

// logf is passed as Logf to library options.
func logf(format string, args ...any) {
	logVerbose(grey(fmt.Sprintf(format, args...)))
}

// applyVerbose sets logLevel from the global -v flag count.
func applyVerbose() {
	switch n := len(globalOpts.Verbose); {
	case n >= 2:
		logLevel = 3
	case n == 1:
		logLevel = 2
	}
}
