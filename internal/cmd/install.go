package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/graph"
	"github.com/quantmind-br/depkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command
func NewInstallCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry) *cobra.Command {
	var opts core.InstallOptions

	cmd := &cobra.Command{
		Use:   "install PACKAGE...",
		Short: "Install packages and their dependencies",
		Long: `Install each package after every dependency it transitively needs.
Packages already installed are skipped.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: packageCompletion(cfg, log, registry, false),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs, err := parsePackages(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, log, registry, !opts.DryRun)
			if err != nil {
				return err
			}
			defer s.Close()

			if opts.DryRun {
				for _, p := range pkgs {
					printPlan(cmd, core.OpInstall, p, s.engine.PlanInstall(p))
				}
				return nil
			}

			log.Info().
				Strs("packages", args).
				Str("backend", s.backend.Name()).
				Msg("starting installation")

			return s.finish(ctx, runInstall(ctx, cmd, s, pkgs, opts))
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show the install order without installing")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "do not show a progress bar")

	return cmd
}

func runInstall(ctx context.Context, cmd *cobra.Command, s *session, pkgs []core.Package, opts core.InstallOptions) error {
	out := cmd.OutOrStdout()
	defer s.engine.SetObserver(nil)

	for _, p := range pkgs {
		plan := s.engine.PlanInstall(p)
		if len(plan) == 0 {
			ui.PrintInfo(out, "%s is already installed", p)
			continue
		}

		var bar *ui.ProgressBar
		if !opts.Quiet {
			bar = ui.NewStepProgressBar(cmd.ErrOrStderr(), len(plan), fmt.Sprintf("installing %s", p))
		}
		s.engine.SetObserver(func(step graph.Step) {
			_ = bar.Step(step.Package.String(), step.Err != nil)
			if step.Err != nil {
				ui.PrintWarning(cmd.ErrOrStderr(), "%v", step.Err)
			}
		})

		_, err := s.engine.Install(ctx, p)
		_ = bar.Finish()
		if err != nil {
			ui.PrintError(cmd.ErrOrStderr(), "%v", err)
			return err
		}

		ui.PrintSuccess(out, "installed %s (%s)", p, strings.Join(core.Names(plan), " → "))
	}

	return nil
}

// printPlan prints the ordered backend calls an operation would make
func printPlan(cmd *cobra.Command, op core.Operation, p core.Package, plan []core.Package) {
	out := cmd.OutOrStdout()
	if len(plan) == 0 {
		ui.PrintInfo(out, "%s %s: nothing to do", op, p)
		return
	}

	ui.PrintInfo(out, "%s %s: %d steps", op, p, len(plan))
	for i, step := range plan {
		ui.PrintStep(out, i+1, len(plan), "%s %s", op, step)
	}
}
