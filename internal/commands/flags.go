package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// watchFlag is given either bare (-watch) or with an interval in seconds
// (-watch=10).
type watchFlag struct {
	set     bool
	seconds float64
}

func (w *watchFlag) String() string {
	if w == nil || !w.set {
		return ""
	}
	if w.seconds > 0 {
		return strconv.FormatFloat(w.seconds, 'f', -1, 64)
	}
	return "true"
}

func (w *watchFlag) Set(value string) error {
	switch value {
	case "true":
		w.set, w.seconds = true, 0
		return nil
	case "false":
		w.set, w.seconds = false, 0
		return nil
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid interval %q", value)
	}
	w.set, w.seconds = true, seconds
	return nil
}

func (w *watchFlag) IsBoolFlag() bool { return true }

// editFlag is given either bare (-edit) or with an editor command
// (-edit=vim).
type editFlag struct {
	set    bool
	editor string
}

func (e *editFlag) String() string {
	if e == nil || !e.set {
		return ""
	}
	return e.editor
}

func (e *editFlag) Set(value string) error {
	switch value {
	case "true":
		e.set, e.editor = true, ""
	case "false":
		e.set, e.editor = false, ""
	default:
		e.set, e.editor = true, strings.TrimSpace(value)
	}
	return nil
}

func (e *editFlag) IsBoolFlag() bool { return true }
