package vcs

import (
	"fmt"
	"os"
	"strings"
)

// Default version resolution settings. These match the project's firmware
// tagging convention (tags like esp32-v1.2.3).
const (
	DefaultTagMatch = "esp32-v*"
	DefaultEnvVar   = "VERSION"
	DefaultDefine   = "FIRMWARE_VERSION"
)

// DefaultStripPrefixes are removed from the front of a describe result, most
// specific first.
var DefaultStripPrefixes = []string{"esp32-v", "v"}

// VersionOptions configures ResolveVersion. Zero values fall back to the
// package defaults above.
type VersionOptions struct {
	TagMatch      string
	StripPrefixes []string
	EnvVar        string

	// LookupEnv overrides the environment lookup; nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// ResolveVersion computes the firmware version string. Strategies are tried
// in order and every failure falls through to the next one:
//
//  1. git describe against the tag pattern, with the tag prefix stripped,
//     the short hash appended when not already part of the result, and a
//     -dirty suffix when the tree has uncommitted changes.
//  2. An externally supplied version from the override environment variable.
//  3. "dev-<shortHash>[-dirty]", or the literal "dev" when no hash is
//     obtainable either.
//
// It never returns an error: a broken or absent git installation degrades to
// the fallback strategies.
func ResolveVersion(repo Repository, opts VersionOptions) string {
	if opts.TagMatch == "" {
		opts.TagMatch = DefaultTagMatch
	}
	if len(opts.StripPrefixes) == 0 {
		opts.StripPrefixes = DefaultStripPrefixes
	}
	if opts.EnvVar == "" {
		opts.EnvVar = DefaultEnvVar
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	if v, err := describeVersion(repo, opts); err == nil {
		return v
	}

	if v, ok := opts.LookupEnv(opts.EnvVar); ok && v != "" {
		return v
	}

	if hash, err := repo.ShortHash(); err == nil && hash != "" {
		if dirty, err := repo.IsDirty(); err == nil && dirty {
			return fmt.Sprintf("dev-%s-dirty", hash)
		}
		return "dev-" + hash
	}

	return "dev"
}

func describeVersion(repo Repository, opts VersionOptions) (string, error) {
	version, err := repo.Describe(opts.TagMatch)
	if err != nil {
		return "", err
	}
	if version == "" {
		return "", fmt.Errorf("empty describe output")
	}

	for _, prefix := range opts.StripPrefixes {
		if strings.HasPrefix(version, prefix) {
			version = strings.TrimPrefix(version, prefix)
			break
		}
	}

	// Anchor the version to a commit even when the tag sits on HEAD.
	if hash, err := repo.ShortHash(); err == nil && hash != "" && !strings.Contains(version, hash) {
		version = fmt.Sprintf("%s-%s", version, hash)
	}

	if dirty, err := repo.IsDirty(); err == nil && dirty {
		version += "-dirty"
	}

	return version, nil
}

// Define renders the version as a preprocessor define for the compiler
// command line, e.g. -DFIRMWARE_VERSION="1.2.3-abcdef1".
func Define(name, version string) string {
	if name == "" {
		name = DefaultDefine
	}
	return fmt.Sprintf(`-D%s="%s"`, name, version)
}
