package cmd

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type packageInfo struct {
	Name         string   `json:"name"`
	Installed    bool     `json:"installed"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
	RequiredBy   []string `json:"required_by"`
	Closure      []string `json:"closure"`
}

// NewInfoCmd creates the info command
func NewInfoCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info [PACKAGE]",
		Short: "Show dependency information for a package",
		Long: `Show a package's direct dependencies, the packages declaring it, the
installed packages requiring it and its full dependency closure.
Run without arguments for an interactive selector.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: packageCompletion(cfg, log, registry, false),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, log, registry, false)
			if err != nil {
				return err
			}
			defer s.Close()

			var pkg core.Package
			if len(args) == 0 {
				known := core.Names(s.engine.Packages())
				if len(known) == 0 {
					ui.PrintInfo(cmd.OutOrStdout(), "No packages declared or installed")
					return nil
				}
				_, name, err := ui.SelectPrompt("Select a package", known)
				if err != nil {
					return err
				}
				pkg = core.Package(name)
			} else if pkg, err = core.ParsePackage(args[0]); err != nil {
				return err
			}

			info := packageInfo{
				Name:         pkg.String(),
				Installed:    s.engine.IsInstalled(pkg),
				Dependencies: core.Names(s.engine.Dependencies(pkg)),
				Dependents:   core.Names(s.engine.Dependents(pkg)),
				RequiredBy:   core.Names(s.engine.InstalledDependents(pkg)),
				Closure:      core.Names(s.engine.Closure(pkg)),
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			printPackageInfo(cmd, info)

			known := core.Names(s.engine.Packages())
			if !slices.Contains(known, info.Name) {
				errOut := cmd.ErrOrStderr()
				ui.PrintWarning(errOut, "%s has no declarations and is not installed", pkg)
				if suggestions := ui.Suggest(info.Name, known, 3); len(suggestions) > 0 {
					ui.PrintInfo(errOut, "did you mean: %s?", strings.Join(suggestions, ", "))
				}
			}

			log.Debug().
				Str("package", info.Name).
				Msg("displayed package info")
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func printPackageInfo(cmd *cobra.Command, info packageInfo) {
	out := cmd.OutOrStdout()
	ui.PrintHeader(out, "Package Information")
	ui.PrintKeyValue(out, "Name", info.Name)
	ui.PrintKeyValue(out, "Status", ui.ColorizeInstalled(info.Installed))
	ui.PrintKeyValue(out, "Depends on", ui.JoinOrNone(info.Dependencies))
	ui.PrintKeyValue(out, "Declared by", ui.JoinOrNone(info.Dependents))
	ui.PrintKeyValue(out, "Required by", ui.JoinOrNone(info.RequiredBy))
	ui.PrintKeyValue(out, "Closure", ui.JoinOrNone(info.Closure))
}
