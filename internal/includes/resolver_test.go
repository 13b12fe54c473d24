package includes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	dirs map[string]string
}

func (f *fakeResolver) PackageDir(name string) (string, error) {
	if dir, ok := f.dirs[name]; ok {
		return dir, nil
	}
	return "", errors.New("package " + name + " not found")
}

func TestPathsDefaults(t *testing.T) {
	resolver := &fakeResolver{dirs: map[string]string{
		DefaultFramework: "/pio/packages/framework-arduinoespressif32",
	}}

	paths, err := Paths(resolver, Options{})
	require.NoError(t, err)

	want := []string{
		filepath.Join("/pio/packages/framework-arduinoespressif32", "libraries", "WiFi", "src"),
		filepath.Join("/pio/packages/framework-arduinoespressif32", "libraries", "Preferences", "src"),
		filepath.Join("/pio/packages/framework-arduinoespressif32", "libraries", "Ethernet", "src"),
		filepath.Join("/pio/packages/framework-arduinoespressif32", "libraries", "WiFiClientSecure", "src"),
	}
	assert.Equal(t, want, paths)
}

func TestPathsCustomLibraries(t *testing.T) {
	resolver := &fakeResolver{dirs: map[string]string{
		"framework-espidf": "/pkgs/framework-espidf",
	}}

	paths, err := Paths(resolver, Options{
		Framework: "framework-espidf",
		Libraries: []string{"BLE"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("/pkgs/framework-espidf", "libraries", "BLE", "src")}, paths)
}

func TestPathsMissingFrameworkFails(t *testing.T) {
	_, err := Paths(&fakeResolver{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), DefaultFramework)
}

func TestFlags(t *testing.T) {
	flags := Flags([]string{"/a/src", "/b/src"})
	assert.Equal(t, []string{"-I/a/src", "-I/b/src"}, flags)
}

func TestPlatformIOResolverSearchOrder(t *testing.T) {
	explicit := t.TempDir()
	core := t.TempDir()
	home := t.TempDir()

	mkPkg := func(store, name string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Join(store, name), 0755))
	}

	homePackages := filepath.Join(home, ".platformio", "packages")
	mkPkg(explicit, "only-explicit")
	mkPkg(filepath.Join(core, "packages"), "only-core")
	mkPkg(homePackages, "only-home")
	mkPkg(explicit, "everywhere")
	mkPkg(filepath.Join(core, "packages"), "everywhere")
	mkPkg(homePackages, "everywhere")

	resolver := &PlatformIOResolver{
		PackagesDir: explicit,
		LookupEnv: func(key string) (string, bool) {
			if key == "PLATFORMIO_CORE_DIR" {
				return core, true
			}
			return "", false
		},
		HomeDir: func() (string, error) { return home, nil },
	}

	tests := []struct {
		name string
		pkg  string
		want string
	}{
		{"explicit store", "only-explicit", filepath.Join(explicit, "only-explicit")},
		{"core dir store", "only-core", filepath.Join(core, "packages", "only-core")},
		{"home store", "only-home", filepath.Join(homePackages, "only-home")},
		{"explicit wins", "everywhere", filepath.Join(explicit, "everywhere")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := resolver.PackageDir(tt.pkg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dir)
		})
	}
}

func TestPlatformIOResolverMissingPackage(t *testing.T) {
	resolver := &PlatformIOResolver{
		PackagesDir: t.TempDir(),
		LookupEnv:   func(string) (string, bool) { return "", false },
		HomeDir:     func() (string, error) { return "", errors.New("no home") },
	}

	_, err := resolver.PackageDir("framework-arduinoespressif32")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPlatformIOResolverIgnoresPlainFiles(t *testing.T) {
	store := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(store, "framework-arduinoespressif32"), []byte("not a dir"), 0644))

	resolver := &PlatformIOResolver{
		PackagesDir: store,
		LookupEnv:   func(string) (string, bool) { return "", false },
		HomeDir:     func() (string, error) { return "", errors.New("no home") },
	}

	_, err := resolver.PackageDir("framework-arduinoespressif32")
	require.Error(t, err)
}
