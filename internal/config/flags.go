package config

import (
	"flag"
	"io"
)

// CLIFlags holds command line overrides. Nil fields were not set.
type CLIFlags struct {
	ConfigPath *string
	Port       *string
	LogLevel   *string
	DSN        *string
	NatsURL    *string
}

// ParseFlags parses command line arguments into CLIFlags.
// Flags not present on the command line stay nil so they never
// clobber YAML or ENV values.
func ParseFlags(args []string) (CLIFlags, error) {
	fs := flag.NewFlagSet("neuroflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "path to YAML config file")
	fs.StringVar(configPath, "c", "", "path to YAML config file (shorthand)")
	port := fs.String("port", "", "HTTP server port")
	fs.StringVar(port, "p", "", "HTTP server port (shorthand)")
	logLevel := fs.String("log-level", "", "log level (debug|info|warn|error)")
	dsn := fs.String("dsn", "", "PostgreSQL DSN")
	natsURL := fs.String("nats-url", "", "NATS server URL")

	if err := fs.Parse(args); err != nil {
		return CLIFlags{}, err
	}

	var flags CLIFlags
	if *configPath != "" {
		flags.ConfigPath = configPath
	}
	if *port != "" {
		flags.Port = port
	}
	if *logLevel != "" {
		flags.LogLevel = logLevel
	}
	if *dsn != "" {
		flags.DSN = dsn
	}
	if *natsURL != "" {
		flags.NatsURL = natsURL
	}
	return flags, nil
}

// LoadWithCLI returns a Config using the hierarchy:
// defaults < YAML < ENV < CLI. The resolved YAML path is returned
// for logging.
func LoadWithCLI(flags CLIFlags) (*Config, string, error) {
	yamlPath := DefaultConfigFile
	if flags.ConfigPath != nil {
		yamlPath = *flags.ConfigPath
	}

	cfg, err := LoadFrom(yamlPath)
	if err != nil {
		return nil, "", err
	}

	applyCLI(cfg, flags)

	if err := validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, yamlPath, nil
}

// applyCLI overlays non-nil CLI flags onto cfg.
func applyCLI(cfg *Config, flags CLIFlags) {
	if flags.Port != nil {
		cfg.Server.Port = *flags.Port
	}
	if flags.LogLevel != nil {
		cfg.Logging.Level = *flags.LogLevel
	}
	if flags.DSN != nil {
		cfg.Postgres.DSN = *flags.DSN
	}
	if flags.NatsURL != nil {
		cfg.NATS.URL = *flags.NatsURL
	}
}
