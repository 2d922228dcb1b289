package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	exitSuccess      = 0
	exitIncomplete   = 1 // run skipped or aborted
	exitCommandError = 2
)

var validFormats = []string{"text", "json", "yaml"}

// exitError carries a process exit code out of RunE.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *exitError) Unwrap() error { return e.err }

func commandError(msg string, err error) error {
	return &exitError{code: exitCommandError, msg: msg, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitCommandError
}

// printer renders a result as text, JSON or YAML.
type printer struct {
	format string
	w      io.Writer
}

func (p printer) print(v any, text func(w io.Writer)) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(p.w)
		return nil
	}
}

func isValidFormat(f string) bool {
	return slices.Contains(validFormats, f)
}
