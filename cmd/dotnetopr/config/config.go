// Package config loads dotnetopr settings from defaults, a YAML file,
// DOTNETOPR_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/dumbnessrf/DotNetOpr/observability"
	"github.com/dumbnessrf/DotNetOpr/toolchain"
)

// Config is the effective configuration.
type Config struct {
	Toolchain ToolchainConfig `koanf:"toolchain" yaml:"toolchain" json:"toolchain"`
	Log       LogConfig       `koanf:"log" yaml:"log" json:"log"`
	Tracing   TracingConfig   `koanf:"tracing" yaml:"tracing" json:"tracing"`
	Metrics   MetricsConfig   `koanf:"metrics" yaml:"metrics" json:"metrics"`

	// File is the configuration file that was loaded, or "".
	File string `koanf:"-" yaml:"-" json:"-"`
}

// ToolchainConfig selects and decodes the dotnet executable.
type ToolchainConfig struct {
	Executable string `koanf:"executable" yaml:"executable" json:"executable"`
	// OutputEncoding names the encoding of toolchain output; empty selects
	// the platform code page.
	OutputEncoding string `koanf:"output_encoding" yaml:"output_encoding" json:"output_encoding"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `koanf:"level" yaml:"level" json:"level"`
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Exporter     string  `koanf:"exporter" yaml:"exporter" json:"exporter"`
	Endpoint     string  `koanf:"endpoint" yaml:"endpoint" json:"endpoint"`
	SamplingRate float64 `koanf:"sampling_rate" yaml:"sampling_rate" json:"sampling_rate"`
}

// MetricsConfig controls the Prometheus textfile dump.
type MetricsConfig struct {
	Textfile string `koanf:"textfile" yaml:"textfile" json:"textfile"`
}

// flagKeys maps command line flags to configuration keys. Flags not listed
// here are not configuration.
var flagKeys = map[string]string{
	"toolchain":       "toolchain.executable",
	"output-encoding": "toolchain.output_encoding",
	"log-level":       "log.level",
	"trace-exporter":  "tracing.exporter",
	"trace-endpoint":  "tracing.endpoint",
	"metrics-file":    "metrics.textfile",
}

// Load builds the configuration. Precedence, lowest first: defaults, the
// config file (cfgFile, or the first of DefaultConfigLocations), DOTNETOPR_*
// environment variables, then flags that were explicitly set.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		cfgFile = FindConfigFile()
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// DOTNETOPR_TRACING_SAMPLING_RATE -> tracing.sampling_rate
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = cfgFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Toolchain.Executable) == "" {
		errs = append(errs, errors.New("toolchain.executable must not be empty"))
	}
	if c.Toolchain.OutputEncoding != "" {
		if _, err := toolchain.LookupEncoding(c.Toolchain.OutputEncoding); err != nil {
			errs = append(errs, fmt.Errorf("toolchain.output_encoding: %w", err))
		}
	}
	if _, err := observability.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Tracing.Exporter {
	case observability.ExporterNone, observability.ExporterStdout, observability.ExporterOTLP:
	default:
		errs = append(errs, fmt.Errorf("tracing.exporter: unsupported exporter %q (want none, stdout or otlp)", c.Tracing.Exporter))
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("tracing.sampling_rate: %v is outside [0, 1]", c.Tracing.SamplingRate))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() observability.LogLevel {
	level, _ := observability.ParseLogLevel(c.Log.Level)
	return level
}

// TracerConfig converts the tracing section for observability.SetupTracing.
func (c *Config) TracerConfig(version string) observability.TracerConfig {
	tc := observability.DefaultTracerConfig()
	tc.ServiceVersion = version
	tc.ExporterType = c.Tracing.Exporter
	tc.OTLPEndpoint = c.Tracing.Endpoint
	tc.SamplingRate = c.Tracing.SamplingRate
	return tc
}
