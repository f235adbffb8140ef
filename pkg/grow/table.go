package grow

import (
	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/geom"
	"github.com/matzehuels/skeletonize/pkg/morph"
)

// Table records which raw node positions have been grown and by which
// handle.
type Table struct {
	handles map[geom.Vec3]morph.Handle
	order   []geom.Vec3
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{handles: make(map[geom.Vec3]morph.Handle)}
}

// Register records h as the handle grown for pos. Registering a position
// twice is a contract violation.
func (t *Table) Register(pos geom.Vec3, h morph.Handle) error {
	if _, ok := t.handles[pos]; ok {
		return errors.New(errors.ErrCodeContractViolation, "node at %v grown twice", pos)
	}
	t.handles[pos] = h
	t.order = append(t.order, pos)
	return nil
}

// Lookup returns the handle registered for pos.
func (t *Table) Lookup(pos geom.Vec3) (morph.Handle, bool) {
	h, ok := t.handles[pos]
	return h, ok
}

// Has reports whether pos has been registered.
func (t *Table) Has(pos geom.Vec3) bool {
	_, ok := t.handles[pos]
	return ok
}

// Len returns the number of registered positions.
func (t *Table) Len() int { return len(t.order) }

// Positions returns the registered positions in registration order.
func (t *Table) Positions() []geom.Vec3 {
	return append([]geom.Vec3(nil), t.order...)
}
