package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regspec-tools/regspec-go/pkg/diff"
	"github.com/regspec-tools/regspec-go/pkg/export"
	"github.com/regspec-tools/regspec-go/pkg/registry"
)

var (
	diffDB     string
	diffFrom   string
	diffTo     string
	diffFormat string
	diffOut    string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare two registry snapshots",
	Long: `Diff compares two snapshots identified as version[@variant] and
renders the change set as Markdown or JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := registry.NewStore(diffDB)
		if err != nil {
			return err
		}
		defer store.Close()

		fromVersion, fromVariant := splitKey(diffFrom)
		from, err := store.Snapshot(fromVersion, fromVariant)
		if err != nil {
			return fmt.Errorf("loading %s: %w", diffFrom, err)
		}
		toVersion, toVariant := splitKey(diffTo)
		to, err := store.Snapshot(toVersion, toVariant)
		if err != nil {
			return fmt.Errorf("loading %s: %w", diffTo, err)
		}

		cs := diff.Diff(from, to)

		var out []byte
		switch diffFormat {
		case "md", "markdown":
			out = []byte(export.ChangeMarkdown(cs))
		case "json":
			out, err = json.MarshalIndent(cs, "", "  ")
			if err != nil {
				return err
			}
			out = append(out, '\n')
		default:
			return fmt.Errorf("unknown format %q (want md or json)", diffFormat)
		}

		if err := writeOutput(diffOut, out); err != nil {
			return err
		}

		s := cs.Summary()
		logger.Info("diff finished", "from", cs.From, "to", cs.To,
			"added", s.Added, "removed", s.Removed, "modified", s.Modified)
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffDB, "db", "regspec.db", "registry database path")
	diffCmd.Flags().StringVar(&diffFrom, "from", "", "from snapshot as version[@variant] (required)")
	diffCmd.Flags().StringVar(&diffTo, "to", "", "to snapshot as version[@variant] (required)")
	diffCmd.Flags().StringVar(&diffFormat, "format", "md", "output format: md or json")
	diffCmd.Flags().StringVarP(&diffOut, "output", "o", "", "write output to a file (default stdout)")
	_ = diffCmd.MarkFlagRequired("from")
	_ = diffCmd.MarkFlagRequired("to")
}
