package assets

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/leapstack-labs/fwbuild/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func gunzip(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer func() { _ = gz.Close() }()

	out, err := io.ReadAll(gz)
	require.NoError(t, err)
	return string(out)
}

func TestCompressProducesArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "index.html", strings.Repeat("<p>hello doorbell</p>\n", 50))
	writeFixture(t, dir, "style.css", strings.Repeat("body { margin: 0; }\n", 50))
	writeFixture(t, dir, "notes.txt", "not a web asset")

	res, err := Compress(Options{Dir: dir, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	assert.Len(t, res.Files, 2)
	assert.Equal(t, 2, res.Compressed())

	for _, name := range []string{"index.html.gz", "style.css.gz"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "artifact %s should exist", name)
		assert.Greater(t, info.Size(), int64(0))
	}

	// Non-matching extensions stay untouched.
	_, err = os.Stat(filepath.Join(dir, "notes.txt.gz"))
	assert.True(t, os.IsNotExist(err))

	// Artifacts are at least as new as their sources.
	for _, name := range []string{"index.html", "style.css"} {
		src, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		gz, err := os.Stat(filepath.Join(dir, name+".gz"))
		require.NoError(t, err)
		assert.False(t, gz.ModTime().Before(src.ModTime()))
	}
}

func TestCompressSkipsUpToDateArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "index.html", "<p>hi</p>")

	_, err := Compress(Options{Dir: dir})
	require.NoError(t, err)

	first, err := os.Stat(filepath.Join(dir, "index.html.gz"))
	require.NoError(t, err)

	res, err := Compress(Options{Dir: dir})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.True(t, res.Files[0].Skipped)

	second, err := os.Stat(filepath.Join(dir, "index.html.gz"))
	require.NoError(t, err)
	assert.Equal(t, first.ModTime(), second.ModTime(), "up-to-date artifact must not be rewritten")
}

func TestCompressRecompressesStaleArtifacts(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "index.html", "<p>v1</p>")

	_, err := Compress(Options{Dir: dir})
	require.NoError(t, err)

	// Push the source ahead of the artifact.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(src, []byte("<p>v2 with more content</p>"), 0644))
	require.NoError(t, os.Chtimes(src, future, future))

	res, err := Compress(Options{Dir: dir})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Skipped)

	assert.Contains(t, gunzip(t, src+".gz"), "v2")
}

func TestCompressReplacesPlaceholderInEntry(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "app.js", `const BUILD = "__UI_BUILD_ID__";\nconsole.log(BUILD, "__UI_BUILD_ID__");`)

	res, err := Compress(Options{Dir: dir, BuildID: "abcdef1-0314-0926"})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Skipped)

	out := gunzip(t, filepath.Join(dir, "app.js.gz"))
	assert.NotContains(t, out, "__UI_BUILD_ID__")
	assert.Contains(t, out, "abcdef1-0314-0926")

	// The source keeps the placeholder, so the entry recompresses on every
	// pass even though its artifact is newer.
	res, err = Compress(Options{Dir: dir, BuildID: "abcdef1-0314-0927"})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Skipped)
	assert.Contains(t, gunzip(t, filepath.Join(dir, "app.js.gz")), "abcdef1-0314-0927")
}

func TestCompressEntryWithoutPlaceholderBehavesNormally(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "app.js", "console.log('no token here');")

	_, err := Compress(Options{Dir: dir, BuildID: "whatever"})
	require.NoError(t, err)

	res, err := Compress(Options{Dir: dir, BuildID: "whatever"})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.True(t, res.Files[0].Skipped)
}

func TestCompressForce(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "index.html", "<p>hi</p>")

	_, err := Compress(Options{Dir: dir})
	require.NoError(t, err)

	res, err := Compress(Options{Dir: dir, Force: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Skipped)
}

func TestCompressMinifiesJS(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "app.js", `
function greet(name) {
    const message = "hello " + name;
    return message;
}
console.log(greet("doorbell"));
`)

	_, err := Compress(Options{Dir: dir, Minify: true})
	require.NoError(t, err)

	out := gunzip(t, filepath.Join(dir, "app.js.gz"))
	assert.NotContains(t, out, "\n    ")
	assert.Contains(t, out, "console.log")
}

func TestCompressMissingDirectoryFails(t *testing.T) {
	_, err := Compress(Options{Dir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}

func TestCompressIgnoresExistingArtifactsAndSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "index.html", "<p>hi</p>")
	writeFixture(t, dir, "old.html.gz", "stale artifact")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "img.html"), 0755))

	res, err := Compress(Options{Dir: dir})
	require.NoError(t, err)
	assert.Len(t, res.Files, 1)
	assert.Equal(t, "index.html", res.Files[0].Name)
}

func TestFileResultReduction(t *testing.T) {
	r := FileResult{OriginalSize: 1000, CompressedSize: 250}
	assert.InDelta(t, 75.0, r.Reduction(), 0.001)

	zero := FileResult{}
	assert.Equal(t, 0.0, zero.Reduction())
}
