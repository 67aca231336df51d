// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Build metadata, overridden with -ldflags "-X" at release time.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// Producer identifies this build in records written outside the process,
// such as execution events: "turnexec/<version>".
func Producer() string {
	return "turnexec/" + Version
}
