package envinfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/hashdrift/internal/results"
)

func TestPlatformName(t *testing.T) {
	tests := map[string]string{
		"linux":   "Linux",
		"darwin":  "Darwin",
		"windows": "Windows",
		"freebsd": "FreeBSD",
		"plan9":   "Plan9",
	}
	for goos, want := range tests {
		assert.Equal(t, want, PlatformName(goos), goos)
	}
}

func TestDetect(t *testing.T) {
	id := Detect()
	assert.Equal(t, PlatformName(runtime.GOOS), id.Platform)
	assert.Equal(t, runtime.Version(), id.RuntimeVersion)
}

func TestOverride(t *testing.T) {
	base := Identity("linux", "go1.23.4")
	assert.Equal(t, results.SystemIdentity{Platform: "Linux", RuntimeVersion: "go1.23.4"}, base)
	assert.Equal(t, base, Override(base, "", ""))
	assert.Equal(t, results.SystemIdentity{Platform: "Linux-arm64", RuntimeVersion: "go1.23.4"}, Override(base, "Linux-arm64", ""))
	assert.Equal(t, "Linux go1.99", Override(base, "", "go1.99").Label())
}
