// Package version resolves the installed version of an application from the
// Go build information, falling back to "unknown".
//
// A release build may stamp the version explicitly via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/gourde/version.Version=1.0.0"
package version
