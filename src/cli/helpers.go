package cli

import (
	"fmt"
	"math"
	"strconv"
	"time"

	wperrors "github.com/ln64-git/setwallpaper/src/errors"
)

// Helper functions for argument parsing and exit status

// parseDelay reads a slideshow delay in seconds. Fractions are allowed.
func parseDelay(s string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid slideshow delay %q: must be a number of seconds", s)
	}
	if !(seconds > 0) || math.IsInf(seconds, 1) {
		return 0, fmt.Errorf("invalid slideshow delay %q: must be positive", s)
	}
	ns := seconds * float64(time.Second)
	if ns < 1 {
		return 0, fmt.Errorf("invalid slideshow delay %q: shorter than a nanosecond", s)
	}
	if ns >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid slideshow delay %q: longer than %s", s, time.Duration(math.MaxInt64))
	}
	return time.Duration(ns), nil
}

// IsFatal reports whether err should make the process exit non-zero
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return wperrors.KindOf(err).Fatal()
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if IsFatal(err) {
		return 1
	}
	return 0
}
