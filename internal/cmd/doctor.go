package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/fsops"
	"github.com/quantmind-br/depkg/internal/graph"
	"github.com/quantmind-br/depkg/internal/lock"
	"github.com/quantmind-br/depkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, state store and backend",
		Long:  `Check that the data directory is writable, the state store loads, the installed set is consistent and the backend can run.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			var issues, warnings []string

			ui.PrintHeader(out, "Configuration")
			ui.PrintKeyValue(out, "Data dir", cfg.Paths.DataDir)
			ui.PrintKeyValue(out, "Database", cfg.Paths.DBFile)
			ui.PrintKeyValue(out, "Lock file", lockPath(cfg))
			ui.PrintKeyValue(out, "Failure policy", orDefault(cfg.Engine.FailurePolicy, "strict"))

			ui.PrintHeader(out, "State")
			fs := afero.NewOsFs()
			if err := fsops.CheckWritable(fs, filepath.Dir(cfg.Paths.DBFile)); err != nil {
				ui.PrintError(out, "data directory: %v", err)
				issues = append(issues, fmt.Sprintf("data directory not writable: %v", err))
			} else {
				ui.PrintSuccess(out, "data directory writable")
			}

			if l, err := lock.Acquire(lockPath(cfg)); err != nil {
				ui.PrintWarning(out, "state lock: %v", err)
				warnings = append(warnings, fmt.Sprintf("state lock unavailable: %v", err))
			} else {
				_ = l.Release()
				ui.PrintSuccess(out, "state lock free")
			}

			if !fsops.Exists(fs, cfg.Paths.DBFile) {
				ui.PrintInfo(out, "no state store at %s yet, creating an empty one", cfg.Paths.DBFile)
			}

			s, err := openSession(ctx, cfg, log, registry, false)
			if err != nil {
				ui.PrintError(out, "state store: %v", err)
				issues = append(issues, fmt.Sprintf("state store: %v", err))
			} else {
				defer s.Close()
				snap := s.engine.Snapshot()
				ui.PrintSuccess(out, "state store loaded (%d edges, %d installed)", len(snap.Edges), len(snap.Installed))

				for _, gap := range closureGaps(s.engine) {
					ui.PrintWarning(out, "%s", gap)
					warnings = append(warnings, gap)
				}

				ui.PrintHeader(out, "Backend")
				if err := s.backend.Check(ctx); err != nil {
					ui.PrintError(out, "%s: %v", s.backend.Name(), err)
					issues = append(issues, fmt.Sprintf("backend %s: %v", s.backend.Name(), err))
				} else {
					ui.PrintSuccess(out, "%s backend ready", s.backend.Name())
				}
			}

			fmt.Fprintln(out)
			switch {
			case len(issues) > 0:
				ui.PrintError(out, "%d issue(s) found", len(issues))
				return fmt.Errorf("doctor found %d issue(s)", len(issues))
			case len(warnings) > 0:
				ui.PrintWarning(out, "%d warning(s)", len(warnings))
			default:
				ui.PrintSuccess(out, "everything looks good")
			}
			return nil
		},
	}

	return cmd
}

// closureGaps reports installed packages with a declared dependency that is
// not installed, which happens when edges are declared after an install
func closureGaps(e *graph.Engine) []string {
	var gaps []string
	for _, p := range e.ListInstalled() {
		for _, d := range e.Dependencies(p) {
			if !e.IsInstalled(d) {
				gaps = append(gaps, fmt.Sprintf("%s is installed but its dependency %s is not", p, d))
			}
		}
	}
	return gaps
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
