package export

import (
	"fmt"
	"strings"

	"github.com/regspec-tools/regspec-go/pkg/diff"
	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/validate"
)

// ValidationMarkdown renders a validation report for one snapshot.
// Findings are assumed to be in engine order.
func ValidationMarkdown(key model.SnapshotKey, findings []validate.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report: %s\n\n", key)

	if len(findings) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	errors := validate.CountBySeverity(findings, validate.SeverityError)
	warnings := validate.CountBySeverity(findings, validate.SeverityWarning)
	infos := validate.CountBySeverity(findings, validate.SeverityInfo)
	fmt.Fprintf(&b, "%d error(s), %d warning(s), %d info\n\n", errors, warnings, infos)

	b.WriteString("| Severity | Rule | Path | Message |\n")
	b.WriteString("|----------|------|------|---------|\n")
	for _, f := range findings {
		path := f.Path.String()
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n", f.Severity, f.RuleID, path, f.Message)
	}

	return b.String()
}

// ChangeMarkdown renders a change report for one directional diff.
func ChangeMarkdown(cs *diff.ChangeSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Changes: %s -> %s\n\n", cs.From, cs.To)

	if cs.Empty() {
		b.WriteString("No changes.\n")
		return b.String()
	}

	s := cs.Summary()
	fmt.Fprintf(&b, "%d added, %d removed, %d modified\n\n", s.Added, s.Removed, s.Modified)

	for _, blk := range cs.Blocks {
		writeBlockChange(&b, blk)
	}

	if len(cs.Constraints) > 0 {
		b.WriteString("## Constraints\n\n")
		for _, c := range cs.Constraints {
			fmt.Fprintf(&b, "- %s `%s`%s\n", c.Kind, c.Name, attrSuffix(c.Attrs))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeBlockChange(b *strings.Builder, blk diff.BlockChange) {
	fmt.Fprintf(b, "## %s block `%s`\n\n", blk.Kind, blk.Name)

	for _, d := range blk.Attrs {
		fmt.Fprintf(b, "- %s: %s -> %s\n", d.Attr, d.Old, d.New)
	}
	for _, reg := range blk.Registers {
		fmt.Fprintf(b, "- %s register `%s`%s\n", reg.Kind, reg.Name, attrSuffix(reg.Attrs))
		for _, f := range reg.Fields {
			fmt.Fprintf(b, "  - %s field `%s`%s\n", f.Kind, f.Name, attrSuffix(f.Attrs))
			for _, ev := range f.Enums {
				switch ev.Kind {
				case diff.Added:
					fmt.Fprintf(b, "    - %s enum `%s` = %s\n", ev.Kind, ev.Name, ev.New)
				case diff.Removed:
					fmt.Fprintf(b, "    - %s enum `%s` (was %s)\n", ev.Kind, ev.Name, ev.Old)
				default:
					fmt.Fprintf(b, "    - %s enum `%s`: %s -> %s\n", ev.Kind, ev.Name, ev.Old, ev.New)
				}
			}
		}
	}
	b.WriteString("\n")
}

func attrSuffix(attrs []diff.AttrDelta) string {
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, len(attrs))
	for i, d := range attrs {
		parts[i] = fmt.Sprintf("%s: %s -> %s", d.Attr, d.Old, d.New)
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
