package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/regspec-tools/regspec-go/pkg/export"
	"github.com/regspec-tools/regspec-go/pkg/model"
)

var (
	exportDB     string
	exportSpec   string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [version[@variant]]",
	Short: "Export a snapshot's register map as JSON or XML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		snap, err := resolveSnapshot(exportDB, exportSpec, key)
		if err != nil {
			return err
		}

		var out []byte
		switch exportFormat {
		case "json":
			out, err = export.RegistersJSON(snap)
		case "xml":
			out, err = export.RegistersXML(snap)
		default:
			return fmt.Errorf("unknown format %q (want json or xml)", exportFormat)
		}
		if err != nil {
			return err
		}
		out = append(out, '\n')

		return writeOutput(exportOut, out)
	},
}

var (
	exportDvDB     string
	exportDvSpec   string
	exportDvOutDir string
)

var exportDvCmd = &cobra.Command{
	Use:   "export-dv [version[@variant]]",
	Short: "Export DV collateral: constraint config and UVM register model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		snap, err := resolveSnapshot(exportDvDB, exportDvSpec, key)
		if err != nil {
			return err
		}

		constraints, err := export.DVConstraintsJSON(snap)
		if err != nil {
			return err
		}
		uvm, err := export.UVMRegModel(snap)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportDvOutDir, 0o755); err != nil {
			return err
		}

		stem := dvFileStem(snap.Key())
		constraintsPath := filepath.Join(exportDvOutDir, stem+"_constraints.json")
		if err := os.WriteFile(constraintsPath, append(constraints, '\n'), 0o644); err != nil {
			return err
		}
		logger.Info("wrote constraint config", "path", constraintsPath)

		uvmPath := filepath.Join(exportDvOutDir, stem+"_regmodel.sv")
		if err := os.WriteFile(uvmPath, []byte(uvm), 0o644); err != nil {
			return err
		}
		logger.Info("wrote UVM register model", "path", uvmPath)
		return nil
	},
}

// dvFileStem turns a snapshot key into a filesystem-safe file stem.
func dvFileStem(key model.SnapshotKey) string {
	stem := key.Version + "_" + key.Variant
	return strings.ReplaceAll(stem, ".", "_")
}

func init() {
	exportCmd.Flags().StringVar(&exportDB, "db", "regspec.db", "registry database path")
	exportCmd.Flags().StringVar(&exportSpec, "spec", "", "export a spec document file instead of a registry snapshot")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or xml")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write output to a file (default stdout)")

	exportDvCmd.Flags().StringVar(&exportDvDB, "db", "regspec.db", "registry database path")
	exportDvCmd.Flags().StringVar(&exportDvSpec, "spec", "", "export a spec document file instead of a registry snapshot")
	exportDvCmd.Flags().StringVar(&exportDvOutDir, "out-dir", ".", "directory to write DV collateral into")
}
