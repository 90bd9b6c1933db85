package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/depkg/internal/backends"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type listEntry struct {
	Name         string    `json:"name"`
	Position     int       `json:"position"`
	InstalledAt  time.Time `json:"installed_at"`
	Backend      string    `json:"backend"`
	Dependencies []string  `json:"dependencies"`
	RequiredBy   []string  `json:"required_by"`
}

// NewListCmd creates the list command
func NewListCmd(cfg *config.Config, log *zerolog.Logger, registry *backends.Registry) *cobra.Command {
	var (
		jsonOutput bool
		sortBy     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long:  `List installed packages in installation order or by name.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, log, registry, false)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.db.InstalledRecords(ctx)
			if err != nil {
				ui.PrintError(cmd.ErrOrStderr(), "failed to list packages: %v", err)
				return err
			}

			entries := make([]listEntry, 0, len(records))
			for _, rec := range records {
				entries = append(entries, listEntry{
					Name:         rec.Name.String(),
					Position:     rec.Position,
					InstalledAt:  rec.InstalledAt,
					Backend:      rec.Backend,
					Dependencies: core.Names(s.engine.Dependencies(rec.Name)),
					RequiredBy:   core.Names(s.engine.InstalledDependents(rec.Name)),
				})
			}

			if err := sortEntries(entries, sortBy); err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				ui.PrintInfo(out, "No packages installed")
				return nil
			}

			ui.PrintHeader(out, "Installed Packages")
			fmt.Fprintf(out, "Total: %d packages\n\n", len(entries))
			printListTable(cmd, entries)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&sortBy, "sort", "order", "sort by: order, name")

	return cmd
}

func sortEntries(entries []listEntry, sortBy string) error {
	switch strings.ToLower(sortBy) {
	case "", "order":
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Position < entries[j].Position
		})
	case "name":
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
		})
	default:
		return fmt.Errorf("%w: unknown sort key %q", core.ErrInvalidArgs, sortBy)
	}
	return nil
}

func printListTable(cmd *cobra.Command, entries []listEntry) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"#", "Name", "Backend", "Install Date", "Required By"}),
		tablewriter.WithAlignment(tw.MakeAlign(5, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, e := range entries {
		requiredBy := "-"
		if len(e.RequiredBy) > 0 {
			requiredBy = strings.Join(e.RequiredBy, ", ")
		}
		table.Append(
			fmt.Sprintf("%d", e.Position+1),
			e.Name,
			e.Backend,
			e.InstalledAt.Local().Format("2006-01-02 15:04"),
			requiredBy,
		)
	}

	table.Render()
}
