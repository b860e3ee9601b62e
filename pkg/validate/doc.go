// Package validate implements the structural validation engine for
// register spec snapshots.
//
// Validation runs a battery of independent rules against a snapshot and
// returns an ordered list of findings. Rules never short-circuit each
// other; the full finding list is always produced. Findings are sorted
// deterministically (block name, register offset, field lsb, rule
// registration order) so reports are stable across runs and suitable
// for golden-output comparison.
//
// Rules are registered in a RuleRegistry, which supports enabling,
// disabling, and severity overrides per rule. The standard rule battery
// lives in the rules subpackage; NewDefaultRegistry there wires it up.
//
// Structural violations in well-formed snapshots are reported as
// findings, never as errors. Validation fails only on malformed input
// (nil snapshot, empty entity names, unknown access tags), which
// indicates the upstream adapter broke the data-model contract; those
// surface as *MalformedModelError.
package validate
