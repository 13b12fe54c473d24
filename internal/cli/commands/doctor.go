package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/fwbuild/internal/cli/output"
	"github.com/leapstack-labs/fwbuild/internal/config"
	"github.com/leapstack-labs/fwbuild/internal/includes"
	"github.com/leapstack-labs/fwbuild/internal/vcs"
	"github.com/spf13/cobra"
)

// HealthCheck is a single doctor finding.
type HealthCheck struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Status   string `json:"status"` // pass, warn, fail
	Detail   string `json:"detail,omitempty"`
}

// DoctorOutput is the JSON output of the doctor command.
type DoctorOutput struct {
	Checks []HealthCheck `json:"checks"`
	Passed int           `json:"passed"`
	Warned int           `json:"warned"`
	Failed int           `json:"failed"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the build environment",
		Long: `Verify that the build hooks will work in this environment: the data
directory and UI entry file exist, git is available for version stamping,
and the vendored framework package can be resolved.

Failures here explain why a build would abort; the command itself always
exits zero so it can run in any state.`,
		Example: `  fwbuild doctor

  fwbuild doctor -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}
}

func runDoctor(cmd *cobra.Command) error {
	cfg := getConfig()
	r := newRenderer(cmd)

	var checks []HealthCheck
	checks = append(checks, configChecks(cfg)...)
	checks = append(checks, versionChecks(cfg)...)
	checks = append(checks, assetChecks(cfg)...)
	checks = append(checks, includeChecks(cfg)...)

	out := &DoctorOutput{Checks: checks}
	for _, c := range checks {
		switch c.Status {
		case "pass":
			out.Passed++
		case "warn":
			out.Warned++
		default:
			out.Failed++
		}
	}

	if r.JSON() {
		return r.WriteJSON(out)
	}

	renderDoctor(r, out)
	return nil
}

func configChecks(cfg *config.Config) []HealthCheck {
	if file := config.GetConfigFileUsed(); file != "" {
		return []HealthCheck{{Category: "config", Name: "config file", Status: "pass", Detail: file}}
	}
	return []HealthCheck{{
		Category: "config",
		Name:     "config file",
		Status:   "warn",
		Detail:   "no fwbuild.yaml found, using defaults (run `fwbuild init`)",
	}}
}

func versionChecks(cfg *config.Config) []HealthCheck {
	var checks []HealthCheck

	if _, err := exec.LookPath("git"); err != nil {
		checks = append(checks, HealthCheck{
			Category: "version",
			Name:     "git binary",
			Status:   "warn",
			Detail:   "git not found; version falls back to $" + cfg.Version.EnvVar + " or \"dev\"",
		})
		return checks
	}
	checks = append(checks, HealthCheck{Category: "version", Name: "git binary", Status: "pass"})

	repo := vcs.Open(cfg.ProjectRoot)
	if _, err := repo.ShortHash(); err != nil {
		checks = append(checks, HealthCheck{
			Category: "version",
			Name:     "repository",
			Status:   "warn",
			Detail:   "project is not a git repository; version falls back to $" + cfg.Version.EnvVar + " or \"dev\"",
		})
		return checks
	}

	version := vcs.ResolveVersion(repo, vcs.VersionOptions{
		TagMatch:      cfg.Version.TagMatch,
		StripPrefixes: cfg.Version.StripPrefixes,
		EnvVar:        cfg.Version.EnvVar,
	})
	checks = append(checks, HealthCheck{
		Category: "version",
		Name:     "resolved version",
		Status:   "pass",
		Detail:   version,
	})
	return checks
}

func assetChecks(cfg *config.Config) []HealthCheck {
	var checks []HealthCheck

	entries, err := os.ReadDir(cfg.DataDir)
	if err != nil {
		return []HealthCheck{{
			Category: "assets",
			Name:     "data directory",
			Status:   "fail",
			Detail:   err.Error(),
		}}
	}

	matching := 0
	entryFound := false
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".gz") {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, want := range cfg.Assets.Extensions {
			if strings.EqualFold(ext, want) {
				matching++
				break
			}
		}
		if e.Name() == cfg.Assets.Entry {
			entryFound = true
		}
	}

	checks = append(checks, HealthCheck{
		Category: "assets",
		Name:     "data directory",
		Status:   "pass",
		Detail:   fmt.Sprintf("%s (%d compressible files)", cfg.DataDir, matching),
	})

	if !entryFound {
		checks = append(checks, HealthCheck{
			Category: "assets",
			Name:     "entry file",
			Status:   "warn",
			Detail:   cfg.Assets.Entry + " not found; no build identifier will be injected",
		})
		return checks
	}

	content, err := os.ReadFile(filepath.Join(cfg.DataDir, cfg.Assets.Entry))
	if err == nil && !strings.Contains(string(content), cfg.Assets.Placeholder) {
		checks = append(checks, HealthCheck{
			Category: "assets",
			Name:     "entry file",
			Status:   "warn",
			Detail:   fmt.Sprintf("%s does not contain %s", cfg.Assets.Entry, cfg.Assets.Placeholder),
		})
		return checks
	}

	checks = append(checks, HealthCheck{Category: "assets", Name: "entry file", Status: "pass", Detail: cfg.Assets.Entry})
	return checks
}

func includeChecks(cfg *config.Config) []HealthCheck {
	resolver := &includes.PlatformIOResolver{PackagesDir: cfg.Includes.PackagesDir}
	dir, err := resolver.PackageDir(cfg.Includes.Framework)
	if err != nil {
		return []HealthCheck{{
			Category: "includes",
			Name:     "framework package",
			Status:   "fail",
			Detail:   err.Error(),
		}}
	}
	return []HealthCheck{{
		Category: "includes",
		Name:     "framework package",
		Status:   "pass",
		Detail:   dir,
	}}
}

func renderDoctor(r *output.Renderer, out *DoctorOutput) {
	titler := cases.Title(language.English)

	lastCategory := ""
	for _, c := range out.Checks {
		if c.Category != lastCategory {
			if lastCategory != "" {
				r.Println()
			}
			r.Header(titler.String(c.Category))
			lastCategory = c.Category
		}

		line := c.Name
		if c.Detail != "" {
			line += ": " + c.Detail
		}
		switch c.Status {
		case "pass":
			r.Success(line)
		case "warn":
			r.Warning(line)
		default:
			r.Error(line)
		}
	}

	r.Println()
	r.Printf("%d passed, %d warnings, %d failures\n", out.Passed, out.Warned, out.Failed)
}
