package rewrite

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a Python language version.
type Version struct {
	Major int
	Minor int
}

// DefaultMinVersion is the oldest target version leapup rewrites for.
var DefaultMinVersion = Version{Major: 3, Minor: 0}

// ParseVersion parses "3", "3.9" or "3.12".
func ParseVersion(s string) (Version, error) {
	major, minor, hasMinor := strings.Cut(strings.TrimSpace(s), ".")
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(major); err != nil || v.Major < 0 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	if hasMinor {
		if v.Minor, err = strconv.Atoi(minor); err != nil || v.Minor < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
	}
	return v, nil
}

// AtLeast returns true if v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
