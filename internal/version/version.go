// Package version holds the release version injected at build time.
package version

var (
	// Version is the semantic version of the current build.
	Version = "0.3.0"
	// DevVersion is reported for builds without an injected version.
	DevVersion = "0.0.0"
)

// GetCurrentVersion returns the effective version for the given mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return DevVersion
	}
	return Version
}
