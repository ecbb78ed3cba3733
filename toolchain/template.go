package toolchain

import (
	"fmt"
	"strings"
)

// Template is a project template known to "dotnet new".
type Template int

// Project templates.
const (
	Console Template = iota
	ClassLib
	WebApi
	Mvc
	WinForms
	Wpf
	Worker
	XUnit
	NUnit
	MsTest
	RazorClassLibrary
)

var templateNames = [...]string{
	Console:           "Console",
	ClassLib:          "ClassLib",
	WebApi:            "WebApi",
	Mvc:               "Mvc",
	WinForms:          "WinForms",
	Wpf:               "Wpf",
	Worker:            "Worker",
	XUnit:             "XUnit",
	NUnit:             "NUnit",
	MsTest:            "MsTest",
	RazorClassLibrary: "RazorClassLibrary",
}

// Templates returns every template in declaration order.
func Templates() []Template {
	out := make([]Template, len(templateNames))
	for i := range templateNames {
		out[i] = Template(i)
	}
	return out
}

// String returns the template identifier, e.g. "ClassLib".
func (t Template) String() string {
	if t < 0 || int(t) >= len(templateNames) {
		return fmt.Sprintf("Template(%d)", int(t))
	}
	return templateNames[t]
}

// ShortName returns the name passed to "dotnet new": the lower-cased identifier.
func (t Template) ShortName() string {
	return strings.ToLower(t.String())
}

// ParseTemplate resolves a template by identifier, ignoring case.
func ParseTemplate(s string) (Template, error) {
	for i, name := range templateNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Template(i), nil
		}
	}
	return Console, fmt.Errorf("unknown template %q", s)
}
