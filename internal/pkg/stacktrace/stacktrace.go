// Package stacktrace trims goroutine dumps down to the frames of this module.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// stack that lives under an internal/ directory, innermost first.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "/") && !strings.Contains(line, ":/") {
			continue
		}

		loc, _, _ := strings.Cut(line, " +0x")
		idx := strings.Index(loc, marker)
		if idx == -1 || !strings.Contains(loc, ".go:") {
			continue
		}

		paths = append(paths, loc[idx+1:])
	}

	return paths
}
