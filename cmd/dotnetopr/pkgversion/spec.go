package pkgversion

import (
	"fmt"
	"strings"
)

// Kind classifies a version spec.
type Kind int

// Version spec kinds.
const (
	// Exact is a plain version, "13.0.3". NuGet treats it as a minimum.
	Exact Kind = iota
	// Range is bracket syntax, "[1.0,2.0)".
	Range
	// Floating contains a wildcard, "13.*" or "1.0.0-*".
	Floating
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Range:
		return "range"
	case Floating:
		return "floating"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Spec is a parsed PackageReference Version value.
type Spec struct {
	Kind Kind

	// Min is the lower bound; nil for open ranges and for "*".
	Min          *Version
	MinInclusive bool
	// Max is the upper bound of a Range; nil when open.
	Max          *Version
	MaxInclusive bool
}

// ParseSpec parses a PackageReference Version value.
func ParseSpec(s string) (*Spec, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("version cannot be empty")
	case strings.HasPrefix(s, "[") || strings.HasPrefix(s, "("):
		return parseRange(s)
	case strings.Contains(s, "*"):
		return parseFloating(s)
	}

	v, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &Spec{Kind: Exact, Min: v, MinInclusive: true}, nil
}

// parseRange parses "[1.0,2.0)", "(,2.0]", "[1.0,)" and the exact match
// "[1.0]".
func parseRange(s string) (*Spec, error) {
	if !strings.HasSuffix(s, "]") && !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("invalid range %q: must end with ] or )", s)
	}
	spec := &Spec{
		Kind:         Range,
		MinInclusive: s[0] == '[',
		MaxInclusive: s[len(s)-1] == ']',
	}

	parts := strings.Split(s[1:len(s)-1], ",")
	var minPart, maxPart string
	switch len(parts) {
	case 1:
		minPart = strings.TrimSpace(parts[0])
		if minPart == "" || !spec.MinInclusive || !spec.MaxInclusive {
			return nil, fmt.Errorf("invalid range %q: a single version must be written [x]", s)
		}
		maxPart = minPart
	case 2:
		minPart, maxPart = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if minPart == "" && maxPart == "" {
			return nil, fmt.Errorf("invalid range %q: no bounds", s)
		}
	default:
		return nil, fmt.Errorf("invalid range %q: expected one or two versions", s)
	}

	var err error
	if minPart != "" {
		if spec.Min, err = Parse(minPart); err != nil {
			return nil, fmt.Errorf("invalid range %q: min: %w", s, err)
		}
	}
	if maxPart != "" {
		if spec.Max, err = Parse(maxPart); err != nil {
			return nil, fmt.Errorf("invalid range %q: max: %w", s, err)
		}
	}

	if spec.Min != nil && spec.Max != nil {
		c := spec.Min.Compare(spec.Max)
		if c > 0 || c == 0 && !(spec.MinInclusive && spec.MaxInclusive) {
			return nil, fmt.Errorf("invalid range %q: empty", s)
		}
	}
	return spec, nil
}

// parseFloating parses "*", "1.*", "1.0.*", "1.0.0.*" and "1.0.0-*".
func parseFloating(s string) (*Spec, error) {
	spec := &Spec{Kind: Floating, MinInclusive: true}
	if s == "*" {
		return spec, nil
	}

	if base, ok := strings.CutSuffix(s, "-*"); ok {
		if strings.Contains(base, "*") {
			return nil, fmt.Errorf("invalid floating version %q", s)
		}
		v, err := Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid floating version %q: %w", s, err)
		}
		if !v.IsPrerelease() {
			// Lowest prerelease of the base version.
			v.Release = []string{"0"}
		}
		spec.Min = v
		return spec, nil
	}

	parts := strings.Split(s, ".")
	last := len(parts) - 1
	if parts[last] != "*" || last > 3 {
		return nil, fmt.Errorf("invalid floating version %q: the wildcard must be the last part", s)
	}
	fixed := parts[:last]
	for len(fixed) < 2 {
		fixed = append(fixed, "0")
	}
	v, err := Parse(strings.Join(fixed, "."))
	if err != nil {
		return nil, fmt.Errorf("invalid floating version %q: %w", s, err)
	}
	spec.Min = v
	return spec, nil
}

// Satisfies reports whether v is allowed by the spec. Floating specs accept
// any version at or above their fixed prefix.
func (s *Spec) Satisfies(v *Version) bool {
	if s.Min != nil {
		c := v.Compare(s.Min)
		if c < 0 || c == 0 && !s.MinInclusive {
			return false
		}
	}
	if s.Max != nil {
		c := v.Compare(s.Max)
		if c > 0 || c == 0 && !s.MaxInclusive {
			return false
		}
	}
	return true
}
