// Package envinfo builds the SystemIdentity of the running host. The
// result is handed to the runner explicitly; nothing below cmd reads the
// host environment on its own.
package envinfo

import (
	"runtime"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/hashdrift/internal/results"
)

// platformNames spells operating systems whose names do not title-case
// cleanly.
var platformNames = map[string]string{
	"aix":       "AIX",
	"dragonfly": "DragonFly",
	"freebsd":   "FreeBSD",
	"ios":       "iOS",
	"js":        "JS",
	"netbsd":    "NetBSD",
	"openbsd":   "OpenBSD",
	"wasip1":    "WASI",
}

// PlatformName returns the display name of a GOOS value, e.g. "linux"
// becomes "Linux".
func PlatformName(goos string) string {
	if name, ok := platformNames[goos]; ok {
		return name
	}
	return cases.Title(language.Und).String(goos)
}

// Identity builds a SystemIdentity from a GOOS value and a runtime version.
func Identity(goos, version string) results.SystemIdentity {
	return results.SystemIdentity{Platform: PlatformName(goos), RuntimeVersion: version}
}

// Detect returns the identity of the running process.
func Detect() results.SystemIdentity {
	return Identity(runtime.GOOS, runtime.Version())
}

// Override replaces the non-empty parts of id.
func Override(id results.SystemIdentity, platform, version string) results.SystemIdentity {
	if platform != "" {
		id.Platform = platform
	}
	if version != "" {
		id.RuntimeVersion = version
	}
	return id
}
