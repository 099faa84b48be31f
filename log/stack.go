// log/stack.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const modulePrefix = "github.com/wingmesh/wingmesh/"

// callstack returns "file:line function" for each frame above the logging
// call, up to the first frame outside this module.
func callstack() []string {
	var pcs [8]uintptr
	n := runtime.Callers(3, pcs[:]) // skip runtime.Callers, callstack and the Logger method
	frames := runtime.CallersFrames(pcs[:n])

	var stack []string
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, modulePrefix) {
			break
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", filepath.Base(f.File), f.Line,
			strings.TrimPrefix(f.Function, modulePrefix)))
		if !more {
			break
		}
	}
	return stack
}
