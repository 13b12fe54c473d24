// Package assets gzip-compresses the static web UI files that get packed
// into the firmware filesystem image.
package assets

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Default compressor settings, matching the project's data-directory layout.
const (
	DefaultEntry       = "app.js"
	DefaultPlaceholder = "__UI_BUILD_ID__"
)

// DefaultExtensions are the web asset types worth compressing.
var DefaultExtensions = []string{".html", ".js", ".css"}

// Options configures a compression pass over one data directory.
type Options struct {
	Dir        string
	Extensions []string

	// Entry is the UI entry file carrying the Placeholder token. While the
	// source still contains the token it is always recompressed, with every
	// occurrence replaced by BuildID.
	Entry       string
	Placeholder string
	BuildID     string

	Level  int  // gzip level; 0 means gzip.BestCompression
	Minify bool // run .js/.css sources through esbuild before compressing
	Force  bool // recompress even when the artifact is up to date

	Logger *slog.Logger
}

// FileResult describes what happened to a single asset.
type FileResult struct {
	Name           string `json:"name"`
	OriginalSize   int64  `json:"original_size"`
	CompressedSize int64  `json:"compressed_size"`
	Skipped        bool   `json:"skipped"`
}

// Reduction returns the size reduction as a percentage.
func (r FileResult) Reduction() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return (1 - float64(r.CompressedSize)/float64(r.OriginalSize)) * 100
}

// Result aggregates a full compression pass.
type Result struct {
	Files []FileResult `json:"files"`
}

// Compressed counts the files that were (re)compressed this pass.
func (r *Result) Compressed() int {
	n := 0
	for _, f := range r.Files {
		if !f.Skipped {
			n++
		}
	}
	return n
}

// Skipped counts the files whose artifacts were already up to date.
func (r *Result) Skipped() int {
	return len(r.Files) - r.Compressed()
}

// Compress scans opts.Dir for matching assets and produces a .gz sibling for
// each one that is missing or stale. Filesystem errors are build-fatal and
// abort the pass.
func Compress(opts Options) (*Result, error) {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.Entry == "" {
		opts.Entry = DefaultEntry
	}
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	if opts.Level == 0 {
		opts.Level = gzip.BestCompression
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	result := &Result{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, ".gz") {
			continue
		}
		if !matchesExtension(name, opts.Extensions) {
			continue
		}

		fr, err := compressFile(opts, log, name)
		if err != nil {
			return nil, fmt.Errorf("compressing %s: %w", name, err)
		}
		result.Files = append(result.Files, fr)
	}

	return result, nil
}

func matchesExtension(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func compressFile(opts Options, log *slog.Logger, name string) (FileResult, error) {
	srcPath := filepath.Join(opts.Dir, name)
	gzPath := srcPath + ".gz"

	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return FileResult{}, err
	}

	content, err := os.ReadFile(srcPath)
	if err != nil {
		return FileResult{}, err
	}

	// The entry file recompresses on every build while the placeholder is
	// present, so each firmware image ships a fresh build identifier.
	isEntry := name == opts.Entry && bytes.Contains(content, []byte(opts.Placeholder))

	if !opts.Force && !isEntry {
		if gzInfo, err := os.Stat(gzPath); err == nil && !gzInfo.ModTime().Before(srcInfo.ModTime()) {
			log.Debug("artifact up to date", "file", name)
			return FileResult{
				Name:           name,
				OriginalSize:   srcInfo.Size(),
				CompressedSize: gzInfo.Size(),
				Skipped:        true,
			}, nil
		}
	}

	if isEntry {
		content = bytes.ReplaceAll(content, []byte(opts.Placeholder), []byte(opts.BuildID))
		log.Debug("substituted build identifier", "file", name, "build_id", opts.BuildID)
	}

	if opts.Minify {
		content, err = minify(name, content)
		if err != nil {
			return FileResult{}, err
		}
	}

	if err := writeGzip(gzPath, content, opts.Level); err != nil {
		return FileResult{}, err
	}

	gzInfo, err := os.Stat(gzPath)
	if err != nil {
		return FileResult{}, err
	}

	fr := FileResult{
		Name:           name,
		OriginalSize:   srcInfo.Size(),
		CompressedSize: gzInfo.Size(),
	}
	log.Debug("compressed asset",
		"file", name,
		"original", fr.OriginalSize,
		"compressed", fr.CompressedSize,
		"reduction", fmt.Sprintf("%.1f%%", fr.Reduction()),
	)
	return fr, nil
}

func writeGzip(path string, content []byte, level int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	gz, err := gzip.NewWriterLevel(f, level)
	if err != nil {
		_ = f.Close()
		return err
	}

	if _, err := io.Copy(gz, bytes.NewReader(content)); err != nil {
		_ = gz.Close()
		_ = f.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
