package commands

import (
	"github.com/leapstack-labs/fwbuild/internal/config"
	"github.com/leapstack-labs/fwbuild/internal/vcs"
	"github.com/spf13/cobra"
)

// VersionOptions holds flag values for the version command.
type VersionOptions struct {
	Define bool
}

// NewVersionCommand creates the version command, which resolves the
// firmware version string (not the fwbuild tool version; that is
// `fwbuild --version`).
func NewVersionCommand() *cobra.Command {
	opts := &VersionOptions{}
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Resolve the firmware version string",
		Long: `Derive the firmware version from source control:

  <tag-without-prefix>[-<shortHash>][-dirty]

falling back to the override environment variable, then to dev-<shortHash>,
then to the literal "dev". Resolution never fails; a missing git
installation just degrades to the fallbacks.`,
		Example: `  # Print the version
  fwbuild version

  # Print as a preprocessor define for the compiler command line
  fwbuild version --define`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Define, "define", false, `Print as -D<NAME>="<version>"`)

	return cmd
}

func runVersion(cmd *cobra.Command, opts *VersionOptions) error {
	cfg := getConfig()
	r := newRenderer(cmd)

	version := resolveFirmwareVersion(cfg)
	define := vcs.Define(cfg.Version.Define, version)

	if r.JSON() {
		return r.WriteJSON(map[string]string{
			"version": version,
			"define":  define,
		})
	}

	if opts.Define {
		r.Println(define)
	} else {
		r.Println(version)
	}
	return nil
}

// resolveFirmwareVersion runs the configured fallback chain against the
// project repository.
func resolveFirmwareVersion(cfg *config.Config) string {
	repo := vcs.Open(cfg.ProjectRoot)
	return vcs.ResolveVersion(repo, vcs.VersionOptions{
		TagMatch:      cfg.Version.TagMatch,
		StripPrefixes: cfg.Version.StripPrefixes,
		EnvVar:        cfg.Version.EnvVar,
	})
}
