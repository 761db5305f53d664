package versioninfo

import (
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

// Dev is reported when the tool version is not known
const Dev = "dev"

// Version is set at link time, e.g. -ldflags "-X jonnyzzz.com/configs/versioninfo.Version=1.2.0"
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// Current returns the version of this tool.
// It falls back to the main module version from the build info and then to Dev.
func Current() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}

	if info, ok := readBuildInfo(); ok && info != nil {
		v := info.Main.Version
		if v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}

	return Dev
}

// Compare compares two marker versions as semantic versions.
// The result is 0 when either version is not a valid semantic version.
func Compare(a, b string) int {
	va, vb := canonical(a), canonical(b)
	if !semver.IsValid(va) || !semver.IsValid(vb) {
		return 0
	}
	return semver.Compare(va, vb)
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
