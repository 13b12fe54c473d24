package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for
// config files.
const maxUpwardSearchLevels = 10

// configNames are the recognized config file names, in priority order.
var configNames = []string{"fwbuild.yaml", "fwbuild.yml"}

// loggerKey stores the logger in the command context. It lives here so the
// commands package can retrieve it without importing the cli package.
type loggerKey struct{}

// Package-level koanf instance and config file tracking.
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// configIn returns the path of a config file in dir, or "".
func configIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRoot determines the project root.
// Priority:
//  1. Explicit --project-dir flag
//  2. Directory of an explicit config file
//  3. Search upward from CWD for fwbuild.yaml
//  4. Current working directory
func findProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if flags != nil && flags.Changed("project-dir") {
		if dir, _ := flags.GetString("project-dir"); dir != "" {
			if abs, err := filepath.Abs(dir); err == nil {
				return abs
			}
			return filepath.Clean(dir)
		}
	}

	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}

	dir := cwd
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configIn(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}

// resolvePathRelativeTo resolves a path against baseDir unless it is empty
// or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadConfig loads configuration from file, environment variables, and
// flags. The cfgFile argument forces a specific config file; empty means
// discover one from the project root.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for a fresh load.
	k = koanf.New(".")
	configFileUsed = ""

	projectRoot := findProjectRoot(cfgFile, flags)

	// 1. Defaults.
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file.
	if cfgFile == "" {
		cfgFile = configIn(projectRoot)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		configFileUsed = cfgFile
	}

	// 3. Environment variables (FWBUILD_ prefix).
	// FWBUILD_DATA_DIR -> data_dir; double underscore nests:
	// FWBUILD_ASSETS__ENTRY -> assets.entry
	if err := k.Load(env.Provider("FWBUILD_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "FWBUILD_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority).
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// project-dir only anchors path resolution, it is not a config key.
			if key == "project_dir" {
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

	cfg.ProjectRoot = projectRoot
	cfg.DataDir = resolvePathRelativeTo(cfg.DataDir, projectRoot)
	cfg.FlagsFile = resolvePathRelativeTo(cfg.FlagsFile, projectRoot)
	cfg.Includes.PackagesDir = resolvePathRelativeTo(cfg.Includes.PackagesDir, projectRoot)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	currentConfig = &cfg

	return &cfg, nil
}

// GetConfigFileUsed returns the path of the config file last loaded, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the most recently loaded configuration, or a
// default-valued one when nothing has been loaded yet.
func GetCurrentConfig() *Config {
	if currentConfig != nil {
		return currentConfig
	}
	cfg, err := LoadConfig("", nil)
	if err != nil {
		return &Config{
			DataDir:      DefaultDataDir,
			FlagsFile:    DefaultFlagsFile,
			OutputFormat: DefaultOutput,
		}
	}
	return cfg
}

// WithLogger stores the logger in a context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from a context, with a discard fallback.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

func validate(cfg *Config) error {
	if cfg.Assets.Level < 1 || cfg.Assets.Level > 9 {
		return fmt.Errorf("assets.level must be between 1 and 9, got %d", cfg.Assets.Level)
	}
	for _, ext := range cfg.Assets.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("assets.extensions entries must start with a dot, got %q", ext)
		}
	}
	switch cfg.OutputFormat {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("output must be one of auto, text, json; got %q", cfg.OutputFormat)
	}
	return nil
}
