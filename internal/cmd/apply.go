package cmd

import (
	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/manifest"
	"github.com/quantmind-br/depkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry) *cobra.Command {
	return newApplyCmd(cfg, log, registry, afero.NewOsFs())
}

func newApplyCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry, fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Declare dependencies from a manifest file",
		Long: `Read a TOML (.toml) or YAML (.yaml, .yml) manifest and declare every entry
in file order. Entries declared before a rejected one are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(fs, args[0])
			if err != nil {
				ui.PrintError(cmd.ErrOrStderr(), "%v", err)
				return err
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, log, registry, true)
			if err != nil {
				return err
			}
			defer s.Close()

			n, applyErr := manifest.Apply(s.engine, m)
			if err := s.finish(ctx, applyErr); err != nil {
				ui.PrintError(cmd.ErrOrStderr(), "%v", err)
				if n > 0 {
					ui.PrintWarning(cmd.ErrOrStderr(), "%d of %d entries were applied", n, len(m.Packages))
				}
				return err
			}

			log.Info().
				Str("file", args[0]).
				Int("entries", n).
				Msg("manifest applied")
			ui.PrintSuccess(cmd.OutOrStdout(), "applied %d entries (%d dependencies) from %s", n, m.Len(), args[0])
			return nil
		},
	}

	return cmd
}
