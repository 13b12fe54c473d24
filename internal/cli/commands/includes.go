package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/fwbuild/internal/includes"
	"github.com/spf13/cobra"
)

// IncludesOptions holds flag values for the includes command.
type IncludesOptions struct {
	Format string // paths, flags
}

// NewIncludesCommand creates the includes command.
func NewIncludesCommand() *cobra.Command {
	opts := &IncludesOptions{}
	cmd := &cobra.Command{
		Use:   "includes",
		Short: "Print the framework include search paths",
		Long: `Resolve the vendored framework package and print the include search
paths for its bundled libraries, one per line.

The build orchestrator splices the output into the compiler invocation for
the firmware target. A framework package that cannot be found is a broken
build environment and fails the command.`,
		Example: `  # Paths only
  fwbuild includes

  # As -I compiler flags
  fwbuild includes --format flags`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIncludes(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "paths", "Output format: paths, flags")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"paths", "flags"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runIncludes(cmd *cobra.Command, opts *IncludesOptions) error {
	cfg := getConfig()
	r := newRenderer(cmd)

	resolver := &includes.PlatformIOResolver{PackagesDir: cfg.Includes.PackagesDir}
	paths, err := includes.Paths(resolver, includes.Options{
		Framework: cfg.Includes.Framework,
		Libraries: cfg.Includes.Libraries,
	})
	if err != nil {
		return err
	}

	if r.JSON() {
		return r.WriteJSON(map[string]any{
			"framework": cfg.Includes.Framework,
			"paths":     paths,
			"flags":     includes.Flags(paths),
		})
	}

	switch opts.Format {
	case "paths":
		r.Println(strings.Join(paths, "\n"))
	case "flags":
		r.Println(strings.Join(includes.Flags(paths), "\n"))
	default:
		return fmt.Errorf("unknown format %q (expected paths or flags)", opts.Format)
	}
	return nil
}
