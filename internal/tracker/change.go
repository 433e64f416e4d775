package tracker

// ChangeOp is the intent attached to one editable field.
type ChangeOp int

const (
	// ChangeKeep leaves the field untouched.
	ChangeKeep ChangeOp = iota

	// ChangeClear removes the field's current value (all labels, the
	// milestone, the assignee).
	ChangeClear

	// ChangeSet replaces the field's value.
	ChangeSet
)

// Change is a tagged edit intent for a single field: Keep, Clear, or
// Set(value). It replaces the magic "none" sentinel convention inside the
// adapter layer; sentinels are translated to Clear at the contract
// boundary.
type Change[T any] struct {
	op    ChangeOp
	value T
}

// Keep returns the no-op change.
func Keep[T any]() Change[T] {
	return Change[T]{}
}

// Clear returns the remove-value change.
func Clear[T any]() Change[T] {
	return Change[T]{op: ChangeClear}
}

// Set returns a change replacing the field with v.
func Set[T any](v T) Change[T] {
	return Change[T]{op: ChangeSet, value: v}
}

// Op returns the change operation.
func (c Change[T]) Op() ChangeOp {
	return c.op
}

// Value returns the replacement value; meaningful only when Op is
// ChangeSet.
func (c Change[T]) Value() T {
	return c.value
}

// IsKeep reports whether the change is a no-op.
func (c Change[T]) IsKeep() bool {
	return c.op == ChangeKeep
}

// EditRequest carries one tagged change per editable issue field.
type EditRequest struct {
	Title     Change[string]
	Body      Change[string]
	Assignee  Change[User]
	Labels    Change[[]Label]
	Milestone Change[Milestone]
}

// Empty reports whether no field carries a change.
func (r *EditRequest) Empty() bool {
	return r.Title.IsKeep() &&
		r.Body.IsKeep() &&
		r.Assignee.IsKeep() &&
		r.Labels.IsKeep() &&
		r.Milestone.IsKeep()
}

// Normalize rewrites sentinel-bearing Set changes into explicit Clears so
// adapters never observe the "none" convention: a label set containing
// the sentinel clears all labels, and the sentinel milestone clears the
// milestone. It then validates that at least one change remains.
func (r *EditRequest) Normalize() error {
	if r.Labels.Op() == ChangeSet {
		for _, label := range r.Labels.Value() {
			if label.None() {
				r.Labels = Clear[[]Label]()
				break
			}
		}
	}
	if r.Milestone.Op() == ChangeSet && r.Milestone.Value().None() {
		r.Milestone = Clear[Milestone]()
	}
	if r.Title.Op() == ChangeClear {
		return Validationf("issue title cannot be removed")
	}
	if r.Empty() {
		return Validationf("aborted edit due to no changes")
	}
	return nil
}
