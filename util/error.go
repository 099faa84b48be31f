// util/error.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"strings"

	"github.com/wingmesh/wingmesh/log"
)

// ErrorLogger accumulates validation errors while an aircraft definition
// is checked. It tracks context about what is currently being validated
// (e.g. "aircraft / wing main / segment root") so that all problems can
// be reported at once rather than stopping at the first.
type ErrorLogger struct {
	hierarchy []string
	errors    []string
	// sentinel errors passed to Error, kept so that Err() still matches
	// them with errors.Is.
	causes []error
}

func (e *ErrorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLogger) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

func (e *ErrorLogger) prefix() string {
	if len(e.hierarchy) == 0 {
		return ""
	}
	return strings.Join(e.hierarchy, " / ") + ": "
}

func (e *ErrorLogger) ErrorString(s string, args ...any) {
	e.errors = append(e.errors, e.prefix()+fmt.Sprintf(s, args...))
}

func (e *ErrorLogger) Error(err error) {
	e.errors = append(e.errors, e.prefix()+err.Error())
	e.causes = append(e.causes, err)
}

func (e *ErrorLogger) HaveErrors() bool {
	return e != nil && len(e.errors) > 0
}

func (e *ErrorLogger) PrintErrors(lg *log.Logger) {
	for _, err := range e.errors {
		lg.Errorf("%s", err)
	}
}

func (e *ErrorLogger) String() string {
	return strings.Join(e.errors, "\n")
}

// Err returns nil if no errors were recorded and otherwise a single error
// whose message lists them all. The result wraps base as well as any
// errors recorded through Error.
func (e *ErrorLogger) Err(base error) error {
	if !e.HaveErrors() {
		return nil
	}
	return &validationError{msg: e.String(), causes: append([]error{base}, e.causes...)}
}

type validationError struct {
	msg    string
	causes []error
}

func (v *validationError) Error() string   { return v.msg }
func (v *validationError) Unwrap() []error { return v.causes }

// CheckDepth is intended to be deferred at the start of a validation
// function: it panics if Push and Pop calls were not balanced.
func (e *ErrorLogger) CheckDepth(d int) {
	if e == nil || e.CurrentDepth() == d {
		return
	}
	if r := recover(); r != nil {
		panic(r)
	}
	panic(fmt.Sprintf("ErrorLogger depth %d at entry, %d at exit: %s", d, e.CurrentDepth(),
		strings.Join(e.hierarchy, " / ")))
}

func (e *ErrorLogger) CurrentDepth() int {
	if e == nil {
		return 0
	}
	return len(e.hierarchy)
}
