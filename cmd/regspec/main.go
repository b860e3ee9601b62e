// Command regspec manages hardware register spec snapshots: ingest
// YAML spec and overlay documents into a SQLite registry, validate
// snapshots against the standard rule battery, diff versions, and
// export downstream collateral.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/registry"
	"github.com/regspec-tools/regspec-go/pkg/specparse"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "regspec",
})

var rootCmd = &cobra.Command{
	Use:           "regspec",
	Short:         "Register spec validation, merge and diff toolkit",
	Long:          "regspec ingests YAML register specs and variant overlays, validates them, diffs versions, and exports register maps and DV collateral.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCodeError carries a specific process exit code through cobra.
type exitCodeError struct {
	code int
	msg  string
}

func (e exitCodeError) Error() string { return e.msg }

func main() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(exportDvCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		var ec exitCodeError
		if errors.As(err, &ec) {
			os.Exit(ec.code)
		}
		os.Exit(1)
	}
}

// splitKey parses "version" or "version@variant".
func splitKey(s string) (string, string) {
	specVersion, variant, found := strings.Cut(s, "@")
	if !found {
		return s, model.DefaultVariant
	}
	return specVersion, variant
}

// resolveSnapshot loads a snapshot either from a spec document file or
// from the registry by "version[@variant]".
func resolveSnapshot(dbPath, specPath, key string) (*model.SpecSnapshot, error) {
	if specPath != "" {
		doc, err := specparse.LoadSpecDoc(specPath)
		if err != nil {
			return nil, err
		}
		return doc.ToModel()
	}

	if key == "" {
		return nil, fmt.Errorf("either --spec or a version[@variant] argument is required")
	}
	store, err := registry.NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	specVersion, variant := splitKey(key)
	return store.Snapshot(specVersion, variant)
}

// writeOutput writes data to a file, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logger.Info("wrote output", "path", path)
	return nil
}
