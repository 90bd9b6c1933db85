package cmd

import (
	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	return NewRootCmdWithRegistry(cfg, log, version, backends.NewRegistry(cfg, log))
}

// NewRootCmdWithRegistry creates the root command over an explicit backend registry
func NewRootCmdWithRegistry(cfg *config.Config, log *zerolog.Logger, version string, registry *backends.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depkg",
		Short: "Dependency-aware package lifecycle",
		Long: `depkg records dependency declarations between packages, installs a package
after its whole dependency closure and removes dependencies no other
installed package still needs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewDeclareCmd(cfg, log, registry))
	cmd.AddCommand(NewApplyCmd(cfg, log, registry))
	cmd.AddCommand(NewInstallCmd(cfg, log, registry))
	cmd.AddCommand(NewUninstallCmd(cfg, log, registry))
	cmd.AddCommand(NewListCmd(cfg, log, registry))
	cmd.AddCommand(NewInfoCmd(cfg, log, registry))
	cmd.AddCommand(NewPlanCmd(cfg, log, registry))
	cmd.AddCommand(NewDoctorCmd(cfg, log, registry))
	cmd.AddCommand(NewCompletionCmd(log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
