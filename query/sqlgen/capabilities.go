package sqlgen

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/go-version"
)

// skipMinMajor is the first server major version that understands SKIP.
const skipMinMajor = 10

// ServerCapabilities describes the server a connection negotiated with.
// It is built once per connection and never changes afterwards.
type ServerCapabilities struct {
	MajorVersion int
	Version      *version.Version
	Raw          string
}

var versionNumber = regexp.MustCompile(`\d+(?:\.\d+)*`)

// ParseServerVersion reads the numeric part of a server version string such
// as "12.10.FC14" or "IBM Informix Dynamic Server Version 11.70.UC8".
func ParseServerVersion(raw string) (ServerCapabilities, error) {
	num := versionNumber.FindString(raw)
	if num == "" {
		return ServerCapabilities{}, fmt.Errorf("no version number in %q", raw)
	}

	v, err := version.NewVersion(num)
	if err != nil {
		return ServerCapabilities{}, fmt.Errorf("invalid server version %q: %w", raw, err)
	}

	return ServerCapabilities{
		MajorVersion: v.Segments()[0],
		Version:      v,
		Raw:          raw,
	}, nil
}

// NewServerCapabilities builds capabilities from a bare major version.
func NewServerCapabilities(major int) ServerCapabilities {
	v, _ := version.NewVersion(fmt.Sprintf("%d.0", major))
	return ServerCapabilities{
		MajorVersion: major,
		Version:      v,
		Raw:          fmt.Sprintf("%d", major),
	}
}

// SupportsSkip reports whether the server accepts the SKIP clause.
func (c ServerCapabilities) SupportsSkip() bool {
	return c.MajorVersion >= skipMinMajor
}

// AtLeast reports whether the server version is at least v, e.g. "11.50".
func (c ServerCapabilities) AtLeast(v string) bool {
	if c.Version == nil {
		return false
	}
	want, err := version.NewVersion(v)
	if err != nil {
		return false
	}
	return c.Version.GreaterThanOrEqual(want)
}

// String returns the version as reported by the server.
func (c ServerCapabilities) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	return fmt.Sprintf("%d", c.MajorVersion)
}
