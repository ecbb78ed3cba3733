// Package pkgversion parses the values accepted by the Version attribute of
// a PackageReference: exact versions, bracket ranges and floating versions.
package pkgversion

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a NuGet package version: SemVer 2.0
// (Major.Minor.Patch[-Release][+Metadata]) or a legacy 4-part version.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	Revision int

	// Legacy is set for Major.Minor.Build.Revision versions.
	Legacy bool

	// Release holds the dot-separated prerelease labels.
	Release []string

	// Metadata is ignored when comparing.
	Metadata string
}

// Parse parses a version such as "13.0.3", "1.0" or "2.0.0-beta.1+sha.5".
func Parse(s string) (*Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("version string cannot be empty")
	}

	v := &Version{}
	rest := s
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		rest, v.Metadata = rest[:i], rest[i+1:]
		if v.Metadata == "" {
			return nil, fmt.Errorf("invalid version %q: empty metadata", s)
		}
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		var release string
		rest, release = rest[:i], rest[i+1:]
		v.Release = strings.Split(release, ".")
		for _, label := range v.Release {
			if !validLabel(label) {
				return nil, fmt.Errorf("invalid version %q: bad release label %q", s, label)
			}
		}
	}

	numbers := strings.Split(rest, ".")
	if len(numbers) < 2 || len(numbers) > 4 {
		return nil, fmt.Errorf("invalid version format: %q", s)
	}
	fields := []*int{&v.Major, &v.Minor, &v.Patch, &v.Revision}
	for i, n := range numbers {
		value, err := strconv.Atoi(n)
		if err != nil || value < 0 {
			return nil, fmt.Errorf("invalid version %q: %q is not a number", s, n)
		}
		*fields[i] = value
	}
	v.Legacy = len(numbers) == 4

	return v, nil
}

func validLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, r := range label {
		if !(r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// IsPrerelease reports whether v has release labels.
func (v *Version) IsPrerelease() bool {
	return len(v.Release) > 0
}

// String returns the normalized form: three parts (four for legacy
// versions with a non-zero revision), release labels, then metadata.
func (v *Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Legacy && v.Revision != 0 {
		fmt.Fprintf(&b, ".%d", v.Revision)
	}
	if len(v.Release) > 0 {
		b.WriteString("-")
		b.WriteString(strings.Join(v.Release, "."))
	}
	if v.Metadata != "" {
		b.WriteString("+")
		b.WriteString(v.Metadata)
	}
	return b.String()
}

// Compare returns -1, 0 or 1. Numeric parts compare first; a release
// version sorts after its prereleases; metadata is ignored.
func (v *Version) Compare(other *Version) int {
	for _, pair := range [][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
		{v.Revision, other.Revision},
	} {
		if c := compareInt(pair[0], pair[1]); c != 0 {
			return c
		}
	}

	switch {
	case len(v.Release) == 0 && len(other.Release) == 0:
		return 0
	case len(v.Release) == 0:
		return 1
	case len(other.Release) == 0:
		return -1
	}

	for i := 0; i < len(v.Release) && i < len(other.Release); i++ {
		if c := compareLabel(v.Release[i], other.Release[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(v.Release), len(other.Release))
}

// compareLabel orders numeric labels numerically and before alphanumeric
// ones, which compare case-insensitively.
func compareLabel(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return compareInt(an, bn)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
