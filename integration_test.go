package regspec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/regspec-tools/regspec-go/pkg/diff"
	"github.com/regspec-tools/regspec-go/pkg/export"
	"github.com/regspec-tools/regspec-go/pkg/merge"
	"github.com/regspec-tools/regspec-go/pkg/model"
	"github.com/regspec-tools/regspec-go/pkg/registry"
	"github.com/regspec-tools/regspec-go/pkg/specparse"
	"github.com/regspec-tools/regspec-go/pkg/validate"
	"github.com/regspec-tools/regspec-go/pkg/validate/rules"
)

const integrationSpec = `
spec_version: "1.2.0"
ip_blocks:
  - name: timer
    base_addr: 0x40000000
    registers:
      - name: TMR_CTRL
        offset: 0x0
        width: 32
        fields:
          - { name: EN, lsb: 0, msb: 0, access: RW }
          - name: MODE
            lsb: 1
            msb: 2
            access: RW
            enum:
              - { name: ONE_SHOT, value: 0 }
              - { name: PERIODIC, value: 1 }
              - { name: PWM, value: 2 }
          - { name: RSVD, lsb: 3, msb: 31, access: RO }
  - name: uart
    base_addr: 0x50000000
    registers:
      - name: CTRL
        offset: 0x0
        fields:
          - { name: TXEN, lsb: 0, msb: 0, access: RW }
          - { name: RSVD, lsb: 1, msb: 31, access: RO }
constraints:
  - name: rsvd-read-zero
    applies_to: field
    match: { name: "RSVD*" }
    rule: READS_AS_ZERO
    severity: warning
`

const integrationOverlay = `
variant: client_B
overrides:
  timer: { instances: 4, stride: 0x1000 }
  uart.CTRL.TXEN: { reset: 1 }
`

// TestE2E_IngestValidateDiffExport walks the whole pipeline: parse a
// spec document, validate it, merge a variant overlay, persist both
// snapshots in SQLite, reload them, diff, and render exports.
func TestE2E_IngestValidateDiffExport(t *testing.T) {
	doc, err := specparse.ParseSpecDoc([]byte(integrationSpec))
	if err != nil {
		t.Fatalf("parsing spec: %v", err)
	}
	base, err := doc.ToModel()
	if err != nil {
		t.Fatalf("converting spec: %v", err)
	}
	base.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// The base spec is clean under the full rule battery.
	findings, err := rules.Validate(base)
	if err != nil {
		t.Fatalf("validating base: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("base findings = %v, want none", findings)
	}

	odoc, err := specparse.ParseOverlayDoc([]byte(integrationOverlay))
	if err != nil {
		t.Fatalf("parsing overlay: %v", err)
	}
	overlay, err := odoc.ToModel()
	if err != nil {
		t.Fatalf("converting overlay: %v", err)
	}

	merged, report, err := merge.Merge(base, []model.VariantOverlay{*overlay}, merge.Options{
		CreatedAt: base.CreatedAt,
	})
	if err != nil {
		t.Fatalf("merging: %v", err)
	}
	if len(report.Failed) != 0 {
		t.Fatalf("rejected overlays: %v", report.Failed)
	}
	if merged.Variant != "client_B" {
		t.Errorf("variant = %q", merged.Variant)
	}
	if len(merged.Blocks) != 5 {
		t.Fatalf("len(blocks) = %d, want 4 timer instances + uart", len(merged.Blocks))
	}

	// Merged variants stay valid: instance expansion must not introduce
	// findings.
	findings, err = rules.Validate(merged)
	if err != nil {
		t.Fatalf("validating merged: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("merged findings = %v, want none", findings)
	}

	// Persist both snapshots and reload through the registry.
	store, err := registry.NewStore(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	if _, err := store.Put(base); err != nil {
		t.Fatalf("storing base: %v", err)
	}
	if _, err := store.Put(merged); err != nil {
		t.Fatalf("storing merged: %v", err)
	}

	from, err := store.Snapshot("1.2.0", "base")
	if err != nil {
		t.Fatalf("loading base: %v", err)
	}
	to, err := store.Snapshot("1.2.0", "client_B")
	if err != nil {
		t.Fatalf("loading variant: %v", err)
	}

	// Diff base vs variant: three added timer instances and the TXEN
	// reset change; the first timer instance is untouched.
	cs := diff.Diff(from, to)
	s := cs.Summary()
	if s.Added != 3 {
		t.Errorf("added = %d, want 3", s.Added)
	}
	if s.Removed != 0 {
		t.Errorf("removed = %d, want 0", s.Removed)
	}

	var txenModified bool
	for _, blk := range cs.Blocks {
		if blk.Name == "uart" && blk.Kind == diff.Modified {
			txenModified = true
		}
	}
	if !txenModified {
		t.Error("uart TXEN reset change not reported")
	}

	// Exports render from the reloaded snapshot.
	jsonOut, err := export.RegistersJSON(to)
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	if !strings.Contains(string(jsonOut), `"timer_3"`) {
		t.Error("json export missing expanded instance timer_3")
	}

	xmlOut, err := export.RegistersXML(to)
	if err != nil {
		t.Fatalf("xml export: %v", err)
	}
	if !strings.Contains(string(xmlOut), `base_addr="0x40003000"`) {
		t.Error("xml export missing strided instance address")
	}

	uvm, err := export.UVMRegModel(to)
	if err != nil {
		t.Fatalf("uvm export: %v", err)
	}
	if !strings.Contains(uvm, "class timer_2_reg_block extends uvm_reg_block;") {
		t.Error("uvm export missing instance block class")
	}

	md := export.ValidationMarkdown(to.Key(), findings)
	if !strings.Contains(md, "1.2.0@client_B") || !strings.Contains(md, "No issues found.") {
		t.Errorf("validation markdown = %s", md)
	}
}

// TestE2E_FailingSpec checks that a broken document flows through to
// error findings in deterministic order.
func TestE2E_FailingSpec(t *testing.T) {
	badSpec := `
spec_version: "0.1.0"
ip_blocks:
  - name: dma
    base_addr: 0x60000000
    registers:
      - name: CFG
        offset: 0x0
        width: 16
        fields:
          - { name: LEN, lsb: 0, msb: 20, access: RW }
          - { name: EN, lsb: 4, msb: 4, access: RW, reset: 2 }
`
	doc, err := specparse.ParseSpecDoc([]byte(badSpec))
	if err != nil {
		t.Fatalf("parsing spec: %v", err)
	}
	snap, err := doc.ToModel()
	if err != nil {
		t.Fatalf("converting spec: %v", err)
	}

	findings, err := rules.Validate(snap)
	if err != nil {
		t.Fatalf("validating: %v", err)
	}
	if !validate.HasErrors(findings) {
		t.Fatal("expected error findings")
	}

	var ids []string
	for _, f := range findings {
		ids = append(ids, f.RuleID)
	}

	// LEN at lsb 0 sorts before EN at lsb 4; EN's two findings report
	// in rule registration order.
	want := []string{"FIELD_OUT_OF_RANGE", "FIELD_OVERLAP", "RESET_OUT_OF_RANGE"}
	if len(ids) != len(want) {
		t.Fatalf("rule ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("rule ids = %v, want %v", ids, want)
		}
	}
}
