package config

import (
	"os"
	"path/filepath"

	"github.com/dumbnessrf/DotNetOpr/observability"
	"github.com/dumbnessrf/DotNetOpr/toolchain"
)

// FileName is the configuration file looked up in the current directory.
const FileName = "dotnetopr.yaml"

// EnvPrefix prefixes environment variables: DOTNETOPR_TOOLCHAIN_EXECUTABLE
// sets toolchain.executable.
const EnvPrefix = "DOTNETOPR_"

// Defaults returns the built-in configuration values keyed by koanf path.
func Defaults() map[string]any {
	return map[string]any{
		"toolchain.executable":      toolchain.DefaultExecutable,
		"toolchain.output_encoding": "",
		"log.level":                 "info",
		"tracing.exporter":          observability.ExporterNone,
		"tracing.endpoint":          "localhost:4317",
		"tracing.sampling_rate":     1.0,
		"metrics.textfile":          "",
	}
}

// DefaultConfigLocations returns the configuration file locations to search
// in precedence order.
func DefaultConfigLocations() []string {
	var locations []string

	if cwd, err := os.Getwd(); err == nil {
		locations = append(locations,
			filepath.Join(cwd, FileName),
			filepath.Join(cwd, "dotnetopr.yml"),
		)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "dotnetopr", "config.yaml"))
	}

	return locations
}

// FindConfigFile returns the first existing configuration file, or "".
func FindConfigFile() string {
	for _, loc := range DefaultConfigLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}
