// Package frameworks enumerates the target framework monikers (TFMs) that
// dotnetopr can pass to project templates.
//
// Example:
//
//	fw, err := frameworks.ParseFramework("net8.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(fw.Moniker(), fw.Identifier()) // net8.0 .NETCoreApp
package frameworks

import (
	"fmt"
	"strings"
)

// Framework is a closed set of target frameworks. The zero value means
// "let the template choose".
type Framework int

// Known frameworks.
const (
	Unspecified Framework = iota
	Net462
	Net47
	Net471
	Net472
	Net48
	Net481
	NetCoreApp31
	NetStandard20
	NetStandard21
	Net50
	Net60
	Net70
	Net80
	Net90
	Net100
)

// Framework identifiers as they appear in MSBuild and NuGet metadata.
const (
	IdentifierNETFramework = ".NETFramework"
	IdentifierNETCoreApp   = ".NETCoreApp"
	IdentifierNETStandard  = ".NETStandard"
)

type frameworkInfo struct {
	moniker    string
	identifier string
	version    string
}

var frameworkTable = map[Framework]frameworkInfo{
	Net462:        {"net462", IdentifierNETFramework, "4.6.2"},
	Net47:         {"net47", IdentifierNETFramework, "4.7"},
	Net471:        {"net471", IdentifierNETFramework, "4.7.1"},
	Net472:        {"net472", IdentifierNETFramework, "4.7.2"},
	Net48:         {"net48", IdentifierNETFramework, "4.8"},
	Net481:        {"net481", IdentifierNETFramework, "4.8.1"},
	NetCoreApp31:  {"netcoreapp3.1", IdentifierNETCoreApp, "3.1"},
	NetStandard20: {"netstandard2.0", IdentifierNETStandard, "2.0"},
	NetStandard21: {"netstandard2.1", IdentifierNETStandard, "2.1"},
	Net50:         {"net5.0", IdentifierNETCoreApp, "5.0"},
	Net60:         {"net6.0", IdentifierNETCoreApp, "6.0"},
	Net70:         {"net7.0", IdentifierNETCoreApp, "7.0"},
	Net80:         {"net8.0", IdentifierNETCoreApp, "8.0"},
	Net90:         {"net9.0", IdentifierNETCoreApp, "9.0"},
	Net100:        {"net10.0", IdentifierNETCoreApp, "10.0"},
}

// All returns every known framework in declaration order, excluding Unspecified.
func All() []Framework {
	all := make([]Framework, 0, len(frameworkTable))
	for fw := Net462; fw <= Net100; fw++ {
		all = append(all, fw)
	}
	return all
}

// Moniker returns the short folder name passed to `dotnet new -f`, or ""
// for Unspecified and unknown values.
func (f Framework) Moniker() string {
	return frameworkTable[f].moniker
}

// Identifier returns the long framework identifier, e.g. ".NETCoreApp".
func (f Framework) Identifier() string {
	return frameworkTable[f].identifier
}

// Version returns the framework version, e.g. "8.0".
func (f Framework) Version() string {
	return frameworkTable[f].version
}

// IsSpecified reports whether f maps to a real moniker.
func (f Framework) IsSpecified() bool {
	_, ok := frameworkTable[f]
	return ok
}

// IsNet5Era returns true for .NET 5 and later.
func (f Framework) IsNet5Era() bool {
	return f >= Net50 && f.IsSpecified()
}

func (f Framework) String() string {
	if m := f.Moniker(); m != "" {
		return m
	}
	return "unspecified"
}

// ParseFramework resolves a moniker such as "net8.0" or "NET8.0". The
// compact forms "net8" and "net80" are accepted for .NET 5+. An empty string
// yields Unspecified.
func ParseFramework(s string) (Framework, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Unspecified, nil
	}

	for fw, info := range frameworkTable {
		if info.moniker == s {
			return fw, nil
		}
	}

	// net8 / net80 shorthand for the net5+ era
	if strings.HasPrefix(s, "net") && !strings.Contains(s, ".") {
		digits := strings.TrimPrefix(s, "net")
		for fw, info := range frameworkTable {
			if !fw.IsNet5Era() {
				continue
			}
			major := strings.TrimSuffix(info.version, ".0")
			if digits == major || digits == major+"0" {
				return fw, nil
			}
		}
	}

	return Unspecified, fmt.Errorf("unknown target framework %q", s)
}
