package resolve

import "github.com/slowlang/pktc/ir"

// NameSet is a growable set of identifier strings, used by Map's
// usedName bookkeeping (the supplemented feature grounded on p4c's
// ReferenceMap::usedName) so a later synthetic-name generator can avoid
// colliding with a name already observed in the program.
type NameSet map[string]bool

// Add records name as used.
func (s NameSet) Add(name string) { s[name] = true }

// Has reports whether name has been recorded.
func (s NameSet) Has(name string) bool { return s[name] }

// Map is the reference map of §3/§6: a binding from every Path-shaped
// occurrence node to the Declaration it resolves to, plus the auxiliary
// "used names" set recorded during resolution.
type Map struct {
	bindings map[int]ir.Declaration
	used     NameSet
	v1       bool
	checksum int
}

// NewMap returns an empty reference map. v1 is exposed back to clients
// via IsV1 (§6's reference-map interface names isV1 as one of its
// methods, alongside setDeclaration/getDeclaration/usedName/checkMap/
// updateMap/clear).
func NewMap(v1 bool) *Map {
	return &Map{bindings: map[int]ir.Declaration{}, used: NameSet{}, v1: v1}
}

// SetDeclaration binds occurrence (a PathExpression, Type_Name, KeyElement
// or This node) to d.
func (m *Map) SetDeclaration(occurrence ir.Node, d ir.Declaration) {
	m.bindings[occurrence.NodeID()] = d
}

// GetDeclaration returns occurrence's bound declaration, if any.
func (m *Map) GetDeclaration(occurrence ir.Node) (ir.Declaration, bool) {
	d, ok := m.bindings[occurrence.NodeID()]
	return d, ok
}

// UsedName records name as observed during resolution, whether or not it
// resolved to anything.
func (m *Map) UsedName(name string) { m.used.Add(name) }

// IsUsedName reports whether name has been recorded by UsedName.
func (m *Map) IsUsedName(name string) bool { return m.used.Has(name) }

// IsV1 reports whether this map was built under v1 (any-order) semantics.
func (m *Map) IsV1() bool { return m.v1 }

// CheckMap reports whether this map is already up to date for root, per
// §4.G's "short-circuit if the reference map's checksum matches this
// root".
func (m *Map) CheckMap(root ir.Node) bool {
	return root != nil && m.checksum == root.NodeID()
}

// UpdateMap records root as the tree this map is now current for.
func (m *Map) UpdateMap(root ir.Node) {
	if root != nil {
		m.checksum = root.NodeID()
	}
}

// Clear empties the map and its used-names set, forcing the next
// resolver run to rebuild from scratch.
func (m *Map) Clear() {
	m.bindings = map[int]ir.Declaration{}
	m.used = NameSet{}
	m.checksum = 0
}
