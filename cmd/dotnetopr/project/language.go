package project

import (
	"fmt"
	"strings"
)

// LanguageVersion is a C# language version accepted by the LangVersion property.
type LanguageVersion int

// Supported language versions.
const (
	LangLatest LanguageVersion = iota
	LangPreview
	CSharp3
	CSharp4
	CSharp5
	CSharp6
	CSharp7
	CSharp8
	CSharp9
	CSharp10
	CSharp11
	CSharp12
	CSharp13
)

var languageVersionNames = map[LanguageVersion]string{
	LangLatest:  "latest",
	LangPreview: "preview",
	CSharp3:     "3.0",
	CSharp4:     "4.0",
	CSharp5:     "5.0",
	CSharp6:     "6.0",
	CSharp7:     "7.0",
	CSharp8:     "8.0",
	CSharp9:     "9.0",
	CSharp10:    "10.0",
	CSharp11:    "11.0",
	CSharp12:    "12.0",
	CSharp13:    "13.0",
}

// String returns the LangVersion property value. Unknown values render as "latest".
func (v LanguageVersion) String() string {
	if s, ok := languageVersionNames[v]; ok {
		return s
	}
	return "latest"
}

// ParseLanguageVersion accepts "latest", "preview", "12", "12.0" and "csharp12".
func ParseLanguageVersion(s string) (LanguageVersion, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimPrefix(norm, "csharp")
	norm = strings.TrimPrefix(norm, "c#")
	if norm != "" && !strings.Contains(norm, ".") && norm != "latest" && norm != "preview" {
		norm += ".0"
	}
	for v, name := range languageVersionNames {
		if name == norm {
			return v, nil
		}
	}
	return LangLatest, fmt.Errorf("unknown language version %q", s)
}
