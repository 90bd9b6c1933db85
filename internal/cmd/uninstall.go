package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the uninstall command
func NewUninstallCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry) *cobra.Command {
	var (
		dryRun bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "uninstall PACKAGE...",
		Short: "Uninstall packages and dependencies nothing else needs",
		Long: `Uninstall each package, then every dependency that no other installed
package still requires. Shared dependencies stay installed.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: packageCompletion(cfg, log, registry, true),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs, err := parsePackages(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, log, registry, !dryRun)
			if err != nil {
				return err
			}
			defer s.Close()

			targets := make([]core.Package, 0, len(pkgs))
			for _, p := range pkgs {
				if s.engine.IsInstalled(p) {
					targets = append(targets, p)
					continue
				}
				reportNotInstalled(cmd, s, p)
			}
			if len(targets) == 0 {
				return nil
			}

			for _, p := range targets {
				printPlan(cmd, core.OpUninstall, p, s.engine.PlanUninstall(p))
			}
			if dryRun {
				return nil
			}

			if !yes {
				confirmed, err := ui.ConfirmPrompt(fmt.Sprintf("Uninstall %s", strings.Join(core.Names(targets), ", ")))
				if err != nil {
					return err
				}
				if !confirmed {
					ui.PrintWarning(cmd.ErrOrStderr(), "uninstall cancelled, nothing was removed")
					return nil
				}
			}

			log.Info().
				Strs("packages", core.Names(targets)).
				Str("backend", s.backend.Name()).
				Msg("starting uninstallation")

			return s.finish(ctx, runUninstall(ctx, cmd, s, targets))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the removal order without uninstalling")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func runUninstall(ctx context.Context, cmd *cobra.Command, s *session, pkgs []core.Package) error {
	out := cmd.OutOrStdout()

	for _, p := range pkgs {
		plan := s.engine.PlanUninstall(p)
		if len(plan) == 0 {
			// Removed as a dependency of an earlier target
			continue
		}

		if _, err := s.engine.Uninstall(ctx, p); err != nil {
			ui.PrintError(cmd.ErrOrStderr(), "%v", err)
			return err
		}
		ui.PrintSuccess(out, "uninstalled %s (%s)", p, strings.Join(core.Names(plan), ", "))
	}

	if kept := keptShared(s, pkgs); len(kept) > 0 {
		ui.PrintInfo(out, "kept shared dependencies: %s", strings.Join(kept, ", "))
	}
	return nil
}

// keptShared lists direct dependencies of pkgs that stayed installed
func keptShared(s *session, pkgs []core.Package) []string {
	seen := make(map[core.Package]bool)
	var kept []string
	for _, p := range pkgs {
		for _, d := range s.engine.Dependencies(p) {
			if seen[d] || !s.engine.IsInstalled(d) {
				continue
			}
			seen[d] = true
			kept = append(kept, d.String())
		}
	}
	return kept
}

func reportNotInstalled(cmd *cobra.Command, s *session, p core.Package) {
	errOut := cmd.ErrOrStderr()
	ui.PrintWarning(errOut, "%s is not installed", p)

	candidates := core.Names(s.engine.ListInstalled())
	if suggestions := ui.Suggest(p.String(), candidates, 3); len(suggestions) > 0 {
		ui.PrintInfo(errOut, "did you mean: %s?", strings.Join(suggestions, ", "))
	}
}
