// Package utils provides small helpers shared by the careerai commands.
package utils

// Build metadata. Release builds set these with
// -ldflags "-X github.com/careerai/relay/pkg/utils.Version=...".
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// VersionString renders the build metadata on one line, e.g.
// "v1.2.0 (3f2c1ab, built 2026-01-02T15:04:05Z)".
func VersionString() string {
	return Version + " (" + Sha + ", built " + Buildtime + ")"
}
