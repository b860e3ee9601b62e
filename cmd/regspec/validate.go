package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regspec-tools/regspec-go/pkg/export"
	"github.com/regspec-tools/regspec-go/pkg/validate"
	"github.com/regspec-tools/regspec-go/pkg/validate/rules"
)

var (
	validateDB       string
	validateSpec     string
	validateReport   string
	validateFailOn   bool
	validatePattern  string
	validateDisabled []string
)

var validateCmd = &cobra.Command{
	Use:   "validate [version[@variant]]",
	Short: "Run the validation rule battery against a snapshot",
	Long: `Validate checks a snapshot from the registry (by version[@variant])
or a spec document file (--spec) against the standard rule battery and
renders a Markdown report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		snap, err := resolveSnapshot(validateDB, validateSpec, key)
		if err != nil {
			return err
		}

		reg := rules.NewRegistry(rules.Options{
			ReservedPattern: validatePattern,
			DisabledRules:   validateDisabled,
		})
		findings, err := validate.ValidateWithRegistry(snap, reg)
		if err != nil {
			return err
		}

		report := export.ValidationMarkdown(snap.Key(), findings)
		if err := writeOutput(validateReport, []byte(report)); err != nil {
			return err
		}

		errors := validate.CountBySeverity(findings, validate.SeverityError)
		warnings := validate.CountBySeverity(findings, validate.SeverityWarning)
		logger.Info("validation finished", "key", snap.Key(), "errors", errors, "warnings", warnings)

		if validateFailOn && validate.HasErrors(findings) {
			return exitCodeError{
				code: 2,
				msg:  fmt.Sprintf("validation failed with %d error(s)", errors),
			}
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateDB, "db", "regspec.db", "registry database path")
	validateCmd.Flags().StringVar(&validateSpec, "spec", "", "validate a spec document file instead of a registry snapshot")
	validateCmd.Flags().StringVar(&validateReport, "report", "", "write the Markdown report to a file (default stdout)")
	validateCmd.Flags().BoolVar(&validateFailOn, "fail-on-error", false, "exit with code 2 when error findings exist")
	validateCmd.Flags().StringVar(&validatePattern, "reserved-pattern", "", "name glob identifying reserved fields (default RSVD*)")
	validateCmd.Flags().StringSliceVar(&validateDisabled, "disable", nil, "rule IDs to disable")
}
