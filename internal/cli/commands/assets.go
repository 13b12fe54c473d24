package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/fwbuild/internal/assets"
	"github.com/leapstack-labs/fwbuild/internal/cli/output"
	"github.com/leapstack-labs/fwbuild/internal/config"
	"github.com/leapstack-labs/fwbuild/internal/vcs"
	"github.com/spf13/cobra"
)

// AssetsOptions holds flag values for the assets command.
type AssetsOptions struct {
	Force   bool
	Watch   bool
	BuildID string
}

// NewAssetsCommand creates the assets command.
func NewAssetsCommand() *cobra.Command {
	opts := &AssetsOptions{}
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Gzip-compress the web UI assets",
		Long: `Compress the static web assets in the data directory before the
filesystem image is built.

Every .html/.js/.css file gets a .gz sibling. Files whose artifact is
already up to date are skipped, except the UI entry file: while its source
contains the build-identifier placeholder it recompresses on every build
with the placeholder replaced by <shortHash>[-dirty]-<MMDD-HHMM>.`,
		Example: `  # One compression pass (what the build orchestrator runs)
  fwbuild assets

  # Recompress everything
  fwbuild assets --force

  # Recompress on change during UI development
  fwbuild assets --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssets(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Recompress even when artifacts are up to date")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Keep running and recompress when sources change")
	cmd.Flags().StringVar(&opts.BuildID, "build-id", "", "Build identifier for the placeholder (default: derived from git)")

	return cmd
}

func runAssets(cmd *cobra.Command, opts *AssetsOptions) error {
	cfg := getConfig()
	r := newRenderer(cmd)
	log := config.GetLogger(cmd.Context())

	buildID := opts.BuildID
	if buildID == "" {
		buildID = vcs.BuildID(vcs.Open(cfg.ProjectRoot), time.Now())
	}

	compressOpts := compressOptions(cfg, buildID, opts.Force)
	compressOpts.Logger = log

	if opts.Watch {
		return assets.Watch(compressOpts, func(res *assets.Result) {
			renderAssetResult(r, res)
		})
	}

	res, err := assets.Compress(compressOpts)
	if err != nil {
		return err
	}
	renderAssetResult(r, res)
	return nil
}

// compressOptions maps the project configuration onto compressor options.
func compressOptions(cfg *config.Config, buildID string, force bool) assets.Options {
	return assets.Options{
		Dir:         cfg.DataDir,
		Extensions:  cfg.Assets.Extensions,
		Entry:       cfg.Assets.Entry,
		Placeholder: cfg.Assets.Placeholder,
		BuildID:     buildID,
		Level:       cfg.Assets.Level,
		Minify:      cfg.Assets.Minify,
		Force:       force,
	}
}

func renderAssetResult(r *output.Renderer, res *assets.Result) {
	if r.JSON() {
		_ = r.WriteJSON(res)
		return
	}

	if len(res.Files) == 0 {
		r.Println("No web assets found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Original", "Gzipped", "Saved"})

	var origTotal, gzTotal int64
	for _, f := range res.Files {
		saved := fmt.Sprintf("%.1f%%", f.Reduction())
		if f.Skipped {
			saved = "up to date"
		}
		t.AppendRow(table.Row{f.Name, formatSize(f.OriginalSize), formatSize(f.CompressedSize), saved})
		origTotal += f.OriginalSize
		gzTotal += f.CompressedSize
	}
	t.AppendFooter(table.Row{"Total", formatSize(origTotal), formatSize(gzTotal), ""})
	t.Render()

	r.Success(fmt.Sprintf("%d compressed, %d up to date", res.Compressed(), res.Skipped()))
}
