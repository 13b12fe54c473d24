package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new fwbuild project",
		Long: `Scaffold the build-hook configuration and data directory:

  - fwbuild.yaml configuration file
  - data/ directory with a starter web UI (index.html, app.js, style.css)
  - .gitignore covering the generated artifacts`,
		Example: `  # Initialize in current directory
  fwbuild init

  # Initialize in a new directory
  fwbuild init my-firmware

  # Overwrite existing files
  fwbuild init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	r := newRenderer(cmd)

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "fwbuild.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("fwbuild.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate("default", dir, force); err != nil {
		return fmt.Errorf("failed to scaffold project: %w", err)
	}

	r.Success("initialized fwbuild project in " + dir)
	r.Println()
	r.Println("Next steps:")
	r.Println("  1. Put your web UI files in data/")
	r.Println("  2. Hook `fwbuild run` into your build")
	r.Println("  3. Tag releases as esp32-v<semver> for version stamping")
	return nil
}
