package cmd

import (
	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewDeclareCmd creates the declare command
func NewDeclareCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "declare PACKAGE [DEPENDENCY...]",
		Short: "Declare direct dependencies of a package",
		Long: `Add dependencies to a package's dependency set. Declarations accumulate
across calls; repeating a dependency has no effect. A declaration that would
create a dependency cycle is rejected as a whole.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs, err := parsePackages(args)
			if err != nil {
				return err
			}
			pkg, deps := pkgs[0], pkgs[1:]

			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, log, registry, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.engine.DeclareDependencies(pkg, deps...); err != nil {
				ui.PrintError(cmd.ErrOrStderr(), "%v", err)
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(deps) == 0 {
				ui.PrintInfo(out, "nothing to declare for %s", pkg)
			} else {
				ui.PrintSuccess(out, "declared %d dependencies for %s", len(deps), pkg)
			}
			ui.PrintKeyValue(out, "Depends on", ui.JoinOrNone(core.Names(s.engine.Dependencies(pkg))))
			return nil
		},
	}

	return cmd
}
