package model

import "path"

// ConstraintScope selects which entity kind a constraint applies to.
type ConstraintScope string

const (
	ScopeField    ConstraintScope = "field"
	ScopeRegister ConstraintScope = "register"
	ScopeBlock    ConstraintScope = "block"
)

// ConstraintSeverity is the severity a constraint violation reports at.
type ConstraintSeverity string

const (
	ConstraintError   ConstraintSeverity = "error"
	ConstraintWarning ConstraintSeverity = "warning"
)

// MatchKind discriminates the closed set of constraint match predicates.
// Matching is a tagged variant rather than an expression language so
// rule evaluation stays exhaustively checkable.
type MatchKind int

const (
	// MatchAll matches every entity in the constraint's scope.
	MatchAll MatchKind = iota

	// MatchByName matches entities whose name matches a glob pattern
	// (e.g. "RSVD*").
	MatchByName

	// MatchByAttr matches entities with a named attribute equal to a
	// value (e.g. access == "RO").
	MatchByAttr
)

// Match is a constraint's entity match predicate.
type Match struct {
	Kind MatchKind

	// Pattern is the name glob for MatchByName.
	Pattern string

	// Attr and Value identify the attribute comparison for MatchByAttr.
	Attr  string
	Value string
}

// MatchesName reports whether the predicate accepts an entity name.
// Only meaningful for MatchAll and MatchByName; MatchByAttr matching
// requires attribute access and is resolved by the validation engine.
func (m Match) MatchesName(name string) bool {
	switch m.Kind {
	case MatchAll:
		return true
	case MatchByName:
		ok, err := path.Match(m.Pattern, name)
		return err == nil && ok
	default:
		return false
	}
}

// Constraint rule identifiers understood by the validation engine.
const (
	// RuleReadsAsZero asserts a field always reads as zero: access RO,
	// reset 0, writes ignored.
	RuleReadsAsZero = "READS_AS_ZERO"
)

// Constraint is a declarative rule attached to a snapshot.
type Constraint struct {
	// Name identifies the constraint in reports.
	Name string

	// Scope selects the entity kind the match runs over.
	Scope ConstraintScope

	// Match selects entities within the scope.
	Match Match

	// Rule is the rule identifier asserted on matched entities.
	Rule string

	// Severity is the severity violations report at.
	Severity ConstraintSeverity
}
