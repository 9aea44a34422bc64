// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for listing output.
type OutputMode int

const (
	// ModeTree renders the interactive box-drawing tree.
	ModeTree OutputMode = iota
	// ModeFlat prints one path per line, suitable for pipes and CI logs.
	ModeFlat
)

// DetectEnvironment returns the recommended output mode. Pipes and CI jobs
// get flat output; a real terminal gets the tree.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeFlat
	}
	return ModeTree
}

// ResolveMode applies the user override flag to auto-detection.
// userFlag should be one of: "auto", "tree", "flat", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tree":
		return ModeTree
	case "flat":
		return ModeFlat
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
