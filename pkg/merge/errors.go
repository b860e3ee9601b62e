package merge

import (
	"fmt"

	"github.com/regspec-tools/regspec-go/pkg/model"
)

// ConflictError reports an overlay application that would violate a
// structural invariant (e.g. a resize leaving an existing field out of
// range). It aborts the merge operation; the base snapshot is never
// touched because merge works on copies.
type ConflictError struct {
	// Overlay is the name of the overlay being applied.
	Overlay string

	// Path locates the entity the conflict occurred at.
	Path model.Path

	// Reason describes the violated invariant and range.
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlay %s conflicts at %s: %s", e.Overlay, e.Path, e.Reason)
}

// UnknownTargetError reports an override whose target path does not
// resolve to any entity. It is fatal to that overlay's application
// only; the batch continues and the failure is collected in the Report.
type UnknownTargetError struct {
	// Overlay is the name of the overlay being applied.
	Overlay string

	// Path is the unresolvable target path.
	Path model.Path
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("overlay %s targets unknown entity %s", e.Overlay, e.Path)
}
