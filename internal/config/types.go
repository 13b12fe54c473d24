// Package config provides layered configuration for the fwbuild CLI.
//
// Precedence (highest to lowest): CLI flags > FWBUILD_* environment
// variables > fwbuild.yaml > built-in defaults.
package config

import (
	"github.com/leapstack-labs/fwbuild/internal/assets"
	"github.com/leapstack-labs/fwbuild/internal/includes"
	"github.com/leapstack-labs/fwbuild/internal/vcs"
)

// Default configuration values.
const (
	DefaultDataDir   = "data"
	DefaultFlagsFile = ".fwbuild/build_flags"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=plain
	DefaultGzipLevel = 9
)

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot anchors relative paths. Derived, never set in the file.
	ProjectRoot string `koanf:"-"`

	DataDir      string `koanf:"data_dir"`
	FlagsFile    string `koanf:"flags_file"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	Assets   AssetsConfig   `koanf:"assets"`
	Version  VersionConfig  `koanf:"version"`
	Includes IncludesConfig `koanf:"includes"`
}

// AssetsConfig configures the web asset compressor.
type AssetsConfig struct {
	Extensions  []string `koanf:"extensions"`
	Entry       string   `koanf:"entry"`
	Placeholder string   `koanf:"placeholder"`
	Level       int      `koanf:"level"`
	Minify      bool     `koanf:"minify"`
}

// VersionConfig configures firmware version resolution.
type VersionConfig struct {
	TagMatch      string   `koanf:"tag_match"`
	StripPrefixes []string `koanf:"strip_prefixes"`
	EnvVar        string   `koanf:"env_var"`
	Define        string   `koanf:"define"`
}

// IncludesConfig configures framework include-path resolution.
type IncludesConfig struct {
	Framework   string   `koanf:"framework"`
	PackagesDir string   `koanf:"packages_dir"`
	Libraries   []string `koanf:"libraries"`
}

// defaultMap feeds the koanf confmap provider. Keys mirror the yaml layout.
func defaultMap() map[string]interface{} {
	return map[string]interface{}{
		"data_dir":               DefaultDataDir,
		"flags_file":             DefaultFlagsFile,
		"verbose":                false,
		"output":                 DefaultOutput,
		"assets.extensions":      assets.DefaultExtensions,
		"assets.entry":           assets.DefaultEntry,
		"assets.placeholder":     assets.DefaultPlaceholder,
		"assets.level":           DefaultGzipLevel,
		"assets.minify":          false,
		"version.tag_match":      vcs.DefaultTagMatch,
		"version.strip_prefixes": vcs.DefaultStripPrefixes,
		"version.env_var":        vcs.DefaultEnvVar,
		"version.define":         vcs.DefaultDefine,
		"includes.framework":     includes.DefaultFramework,
		"includes.packages_dir":  "",
		"includes.libraries":     includes.DefaultLibraries,
	}
}
