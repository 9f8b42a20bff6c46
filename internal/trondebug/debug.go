// Package trondebug gates verbose tracing behind environment
// variables, grounded on go-tony/debug/debug.go's boolEnv+init()
// package-level flag idiom.
package trondebug

import (
	"os"
	"strconv"
)

type flags struct {
	Resolve bool
	Update  bool
	Vacuum  bool
}

var f *flags

func init() {
	f = &flags{
		Resolve: boolEnv("TRON_DEBUG_RESOLVE"),
		Update:  boolEnv("TRON_DEBUG_UPDATE"),
		Vacuum:  boolEnv("TRON_DEBUG_VACUUM"),
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Resolve reports whether path-resolution tracing is enabled.
func Resolve() bool { return f.Resolve }

// Update reports whether copy-on-write rebuild tracing is enabled.
func Update() bool { return f.Update }

// Vacuum reports whether compaction-pass tracing is enabled.
func Vacuum() bool { return f.Vacuum }
