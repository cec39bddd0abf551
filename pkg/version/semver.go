package version

import (
	"github.com/Masterminds/semver/v3"
)

// Version is set once via ldflags, so the parse result never changes
// within a process and is cached after the first call.
var parsed struct {
	done bool
	v    *semver.Version
}

// resetParsedVersion clears the cache between test cases.
func resetParsedVersion() {
	parsed.done = false
	parsed.v = nil
}

// Parsed returns the release as a semantic version. Dev builds and
// malformed tags parse to nil.
func Parsed() *semver.Version {
	if !parsed.done {
		parsed.done = true
		if v, err := semver.NewVersion(Version); err == nil {
			parsed.v = v
		}
	}
	return parsed.v
}

// IsDevBuild reports whether this binary carries no release version
// (built without ldflags, Version left at "dev").
func IsDevBuild() bool {
	return Parsed() == nil
}

// IsPrerelease reports whether the release carries a pre-release tag
// like -beta.1. False for dev builds.
func IsPrerelease() bool {
	v := Parsed()
	return v != nil && v.Prerelease() != ""
}
