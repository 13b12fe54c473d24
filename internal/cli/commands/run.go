package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/fwbuild/internal/assets"
	"github.com/leapstack-labs/fwbuild/internal/config"
	"github.com/leapstack-labs/fwbuild/internal/includes"
	"github.com/leapstack-labs/fwbuild/internal/vcs"
	"github.com/spf13/cobra"
)

// RunOptions holds flag values for the run command.
type RunOptions struct {
	Force bool
}

// RunOutput is the JSON output of the run command.
type RunOutput struct {
	RunID     string         `json:"run_id"`
	Version   string         `json:"version"`
	BuildID   string         `json:"build_id"`
	FlagsFile string         `json:"flags_file"`
	Assets    *assets.Result `json:"assets"`
	Includes  []string       `json:"includes"`
	Elapsed   string         `json:"elapsed"`
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all build hooks for one firmware build",
		Long: `Execute every build hook in order: resolve the firmware version and
build identifier from git, compress the web assets, resolve the framework
include paths, and write the build-flags file (the -I include flags plus
the version define, one per line) for the build orchestrator to splice
into the compiler invocation.

The version and build identifier are computed once and reused across all
hooks, so every artifact of a single build carries the same identity.`,
		Example: `  fwbuild run

  # From a PlatformIO extra script or Makefile
  fwbuild run -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Recompress assets even when artifacts are up to date")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cfg := getConfig()
	r := newRenderer(cmd)
	log := config.GetLogger(cmd.Context())

	start := time.Now()
	runID := uuid.NewString()[:8]
	log = log.With("run_id", runID)

	// One repository snapshot feeds both the version define and the asset
	// build identifier; nothing re-resolves mid-build.
	repo := vcs.Open(cfg.ProjectRoot)
	version := vcs.ResolveVersion(repo, vcs.VersionOptions{
		TagMatch:      cfg.Version.TagMatch,
		StripPrefixes: cfg.Version.StripPrefixes,
		EnvVar:        cfg.Version.EnvVar,
	})
	buildID := vcs.BuildID(repo, start)
	log.Debug("resolved build identity", "version", version, "build_id", buildID)

	compressOpts := compressOptions(cfg, buildID, opts.Force)
	compressOpts.Logger = log
	assetResult, err := assets.Compress(compressOpts)
	if err != nil {
		return fmt.Errorf("asset compression failed: %w", err)
	}

	resolver := &includes.PlatformIOResolver{PackagesDir: cfg.Includes.PackagesDir}
	paths, err := includes.Paths(resolver, includes.Options{
		Framework: cfg.Includes.Framework,
		Libraries: cfg.Includes.Libraries,
	})
	if err != nil {
		return err
	}

	define := vcs.Define(cfg.Version.Define, version)
	if err := writeFlagsFile(cfg.FlagsFile, paths, define); err != nil {
		return fmt.Errorf("writing build flags: %w", err)
	}
	log.Debug("wrote build flags", "file", cfg.FlagsFile)

	out := &RunOutput{
		RunID:     runID,
		Version:   version,
		BuildID:   buildID,
		FlagsFile: cfg.FlagsFile,
		Assets:    assetResult,
		Includes:  paths,
		Elapsed:   time.Since(start).Round(time.Millisecond).String(),
	}

	if r.JSON() {
		return r.WriteJSON(out)
	}

	r.Header("Build hooks")
	r.StatusLine("Version", version)
	r.StatusLine("Build ID", buildID)
	r.StatusLine("Assets", fmt.Sprintf("%d compressed, %d up to date", assetResult.Compressed(), assetResult.Skipped()))
	r.StatusLine("Includes", fmt.Sprintf("%d paths", len(paths)))
	r.StatusLine("Flags file", cfg.FlagsFile)
	r.Success("completed in " + out.Elapsed)
	return nil
}

// writeFlagsFile writes the include flags and the version define, one per
// line, creating the parent directory as needed.
func writeFlagsFile(path string, paths []string, define string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}

	lines := append(includes.Flags(paths), define)
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}
