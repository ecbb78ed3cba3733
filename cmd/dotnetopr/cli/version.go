package cli

import "github.com/dumbnessrf/DotNetOpr/cmd/dotnetopr/version"

// GetVersion returns the short version string
func GetVersion() string {
	return version.Version
}

// GetFullVersion returns detailed version information
func GetFullVersion() string {
	return version.FullInfo()
}
