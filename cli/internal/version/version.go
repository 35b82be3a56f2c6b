// Package version reports build information for the ifxgo binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/ifxgo/adapter/cli/internal/version.Version=..."
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information. A binary installed with "go install"
// reports the module version and VCS revision recorded by the toolchain.
func Get() Info {
	info := Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

// String returns a one-line version string
func (i Info) String() string {
	return fmt.Sprintf("ifxgo %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// Rows returns the fields as label/value pairs for tabular output.
func (i Info) Rows() [][]string {
	return [][]string{
		{"Version", i.Version},
		{"Git commit", i.GitCommit},
		{"Build date", i.BuildDate},
		{"Go", i.GoVersion},
		{"Platform", i.Platform},
	}
}
