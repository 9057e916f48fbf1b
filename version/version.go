package version

import (
	"path"
	"runtime/debug"
	"strings"
)

// Unknown is reported when no version can be resolved.
const Unknown = "unknown"

// develVersion is what the toolchain reports for an unversioned main module.
const develVersion = "(devel)"

var (
	// These variables are set at build time using -ldflags
	Version   = ""
	GitCommit = ""
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Resolve returns the version of the module identified by appName.
//
// appName matches a module when it equals the module path or the last
// element of it ("gourde" matches "github.com/kbukum/gourde"). The main module
// is checked first, then the dependency list. Any lookup failure yields
// Unknown; it never returns an empty string.
func Resolve(appName string) string {
	if appName == "" {
		return Unknown
	}

	info, ok := readBuildInfo()
	if !ok || info == nil {
		return Unknown
	}

	if matches(info.Main.Path, appName) {
		if Version != "" {
			return Version
		}
		if usable(info.Main.Version) {
			return info.Main.Version
		}
		return Unknown
	}

	for _, dep := range info.Deps {
		if dep == nil || !matches(dep.Path, appName) {
			continue
		}
		if dep.Replace != nil && usable(dep.Replace.Version) {
			return dep.Replace.Version
		}
		if usable(dep.Version) {
			return dep.Version
		}
	}
	return Unknown
}

// Short returns the stamped version with an abbreviated commit, e.g. "1.2.0-abc1234".
func Short(appName string) string {
	v := Resolve(appName)
	commit := GitCommit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" || v == Unknown {
		return v
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return v + "-" + commit
}

func vcsRevision() string {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func matches(modulePath, appName string) bool {
	if modulePath == "" {
		return false
	}
	if modulePath == appName {
		return true
	}
	return path.Base(modulePath) == appName
}

func usable(v string) bool {
	return v != "" && v != develVersion && !strings.HasPrefix(v, "v0.0.0-00010101")
}
