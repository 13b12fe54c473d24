// Package includes resolves the extra compiler include search paths the
// firmware needs from the vendored framework package.
package includes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFramework is the vendored framework package whose bundled libraries
// the firmware compiles against.
const DefaultFramework = "framework-arduinoespressif32"

// DefaultLibraries are the framework libraries whose src directories join
// the include search path.
var DefaultLibraries = []string{"WiFi", "Preferences", "Ethernet", "WiFiClientSecure"}

// coreDirEnv points at the build system's package store when set.
const coreDirEnv = "PLATFORMIO_CORE_DIR"

// PackageResolver locates the installation directory of a vendored build
// system package. A missing package is a fatal misconfiguration, so errors
// propagate.
type PackageResolver interface {
	PackageDir(name string) (string, error)
}

// PlatformIOResolver finds packages in the PlatformIO package store. Search
// order: the explicit PackagesDir, then $PLATFORMIO_CORE_DIR/packages, then
// ~/.platformio/packages.
type PlatformIOResolver struct {
	PackagesDir string

	// Overridable for tests; nil means os.LookupEnv / os.UserHomeDir.
	LookupEnv func(string) (string, bool)
	HomeDir   func() (string, error)
}

// PackageDir returns the directory of the named package from the first
// package store that contains it.
func (r *PlatformIOResolver) PackageDir(name string) (string, error) {
	lookupEnv := r.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	homeDir := r.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}

	var stores []string
	if r.PackagesDir != "" {
		stores = append(stores, r.PackagesDir)
	}
	if core, ok := lookupEnv(coreDirEnv); ok && core != "" {
		stores = append(stores, filepath.Join(core, "packages"))
	}
	if home, err := homeDir(); err == nil {
		stores = append(stores, filepath.Join(home, ".platformio", "packages"))
	}

	for _, store := range stores {
		candidate := filepath.Join(store, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("package %s not found (searched: %s)", name, strings.Join(stores, ", "))
}

// Options selects which framework libraries contribute include paths.
type Options struct {
	Framework string
	Libraries []string
}

// Paths resolves the framework package and returns the include search paths
// for the configured libraries, in configuration order.
func Paths(resolver PackageResolver, opts Options) ([]string, error) {
	if opts.Framework == "" {
		opts.Framework = DefaultFramework
	}
	if len(opts.Libraries) == 0 {
		opts.Libraries = DefaultLibraries
	}

	frameworkDir, err := resolver.PackageDir(opts.Framework)
	if err != nil {
		return nil, fmt.Errorf("resolving framework: %w", err)
	}

	paths := make([]string, 0, len(opts.Libraries))
	for _, lib := range opts.Libraries {
		paths = append(paths, filepath.Join(frameworkDir, "libraries", lib, "src"))
	}
	return paths, nil
}

// Flags renders include paths as -I compiler flags.
func Flags(paths []string) []string {
	flags := make([]string, len(paths))
	for i, p := range paths {
		flags[i] = "-I" + p
	}
	return flags
}
