package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", &flagError{flag: "ui", value: value, want: "auto|on|off"}
	}
}

func shouldUseTUI(mode uiMode, interactive bool) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return interactive
	}
}

// progressUIEnabled decides whether a batch shows the Bubble Tea view.
func progressUIEnabled(cmd *cobra.Command) (bool, error) {
	quiet, err := rootBool(cmd, "quiet")
	if err != nil || quiet {
		return false, err
	}
	value, err := rootString(cmd, "ui")
	if err != nil {
		return false, err
	}
	mode, err := readUIMode(value)
	if err != nil {
		return false, err
	}
	return shouldUseTUI(mode, isTerminal(os.Stdout)), nil
}
