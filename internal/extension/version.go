package extension

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a semantic version declared by an extension.
type Version struct {
	v *semver.Version
}

// NewVersion builds a Version from its structured parts.
func NewVersion(major, minor, patch uint64, prerelease, metadata string) *Version {
	return &Version{v: semver.New(major, minor, patch, prerelease, metadata)}
}

// ParseVersion parses a version string. A leading "v" is tolerated.
func ParseVersion(s string) (*Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", s, err)
	}
	return &Version{v: v}, nil
}

// MustParseVersion is like ParseVersion but panics on error. Intended for
// versions declared in Go source.
func MustParseVersion(s string) *Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Version) String() string {
	if v == nil {
		return ""
	}
	return v.v.String()
}

func (v *Version) Major() uint64 { return v.v.Major() }

func (v *Version) Minor() uint64 { return v.v.Minor() }

func (v *Version) Patch() uint64 { return v.v.Patch() }

func (v *Version) Prerelease() string { return v.v.Prerelease() }

// Compare returns -1, 0 or 1 following semver precedence.
func (v *Version) Compare(o *Version) int {
	return v.v.Compare(o.v)
}

// Equal reports whether both versions have the same precedence.
func (v *Version) Equal(o *Version) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.v.Equal(o.v)
}
