// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information for the named binary.
// version, commit and date are set at build time with
// -ldflags "-X 'b4b/internal/core/version.version=v0.1.0' -X 'b4b/internal/core/version.commit=abcd'"
func Info(service string) BuildInfo {
	if service == "" {
		service = "b4b"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
