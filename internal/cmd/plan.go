package cmd

import (
	"fmt"

	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewPlanCmd creates the plan command
func NewPlanCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "plan install|uninstall PACKAGE",
		Short:     "Show the backend calls an operation would make",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(core.OpInstall), string(core.OpUninstall)},
		RunE: func(cmd *cobra.Command, args []string) error {
			op := core.Operation(args[0])
			if op != core.OpInstall && op != core.OpUninstall {
				return fmt.Errorf("%w: operation must be install or uninstall, got %q", core.ErrInvalidArgs, args[0])
			}
			pkg, err := core.ParsePackage(args[1])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), cfg, log, registry, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if op == core.OpInstall {
				printPlan(cmd, op, pkg, s.engine.PlanInstall(pkg))
			} else {
				printPlan(cmd, op, pkg, s.engine.PlanUninstall(pkg))
			}
			return nil
		},
	}

	return cmd
}
