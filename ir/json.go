package ir

import (
	"encoding/json"

	"tlog.app/go/errors"
)

// JSONFielder is the optional hook a variant implements to serialize its
// own non-child fields (a literal's value, a path's name, ...). Children
// are carried generically by Encode/Decode and must not be duplicated
// here.
type JSONFielder interface {
	Node
	MarshalFields() (json.RawMessage, error)
}

// JSONUnfielder is the decode-side counterpart of JSONFielder, called on a
// freshly constructed zero value before its children are attached.
type JSONUnfielder interface {
	Node
	UnmarshalFields(json.RawMessage) error
}

// locSetter lets Decode restore a node's source location; Base.SetLoc
// satisfies it for every variant that embeds Base.
type locSetter interface {
	SetLoc(*SrcLoc)
}

// idEnsurer lets Decode give a freshly constructed zero value its own
// NodeID; Base.EnsureID satisfies it for every variant that embeds Base.
type idEnsurer interface {
	EnsureID()
}

// Registry maps a variant's Kind to a constructor producing its zero
// value, so Decode can instantiate the right concrete type for a node it
// has never seen the Go type of. A front-end package (lang) builds one
// Registry at init and passes it to every Decode call.
type Registry map[string]func() Node

// Register adds kind's constructor to r. It panics on a duplicate kind,
// since that can only be a front-end wiring bug.
func (r Registry) Register(kind string, factory func() Node) {
	if _, ok := r[kind]; ok {
		panic("ir: duplicate JSON registration for kind " + kind)
	}

	r[kind] = factory
}

type wireNode struct {
	Kind     string          `json:"kind"`
	Loc      *SrcLoc         `json:"loc,omitempty"`
	Fields   json.RawMessage `json:"fields,omitempty"`
	Children []wireChild     `json:"children,omitempty"`
}

type wireChild struct {
	Slot string    `json:"slot"`
	Node *wireNode `json:"node"`
}

// EncodeJSON serializes n and its whole subtree. Per §6, round-tripping
// through DecodeJSON with the matching Registry must produce a tree
// structurally Equal to n; EncodeJSON carries only what Decode needs to
// rebuild that: Kind, Loc, variant-specific Fields, and Children.
func EncodeJSON(n Node) ([]byte, error) {
	w, err := encodeNode(n)
	if err != nil {
		return nil, err
	}

	return json.Marshal(w)
}

func encodeNode(n Node) (*wireNode, error) {
	if n == nil {
		return nil, nil
	}

	w := &wireNode{Kind: n.Kind(), Loc: n.Loc()}

	if mf, ok := n.(JSONFielder); ok {
		fields, err := mf.MarshalFields()
		if err != nil {
			return nil, errors.Wrap(err, "marshal fields of %v", n.Kind())
		}

		w.Fields = fields
	}

	for _, ch := range n.Children() {
		cw, err := encodeNode(ch.Node)
		if err != nil {
			return nil, errors.Wrap(err, "child %s of %v", ch.Slot, n.Kind())
		}

		w.Children = append(w.Children, wireChild{Slot: ch.Slot, Node: cw})
	}

	return w, nil
}

// DecodeJSON is the inverse of EncodeJSON, resolving each node's Kind
// against reg to construct the right concrete type.
func DecodeJSON(data []byte, reg Registry) (Node, error) {
	var w wireNode

	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "unmarshal")
	}

	return decodeNode(&w, reg)
}

func decodeNode(w *wireNode, reg Registry) (Node, error) {
	if w == nil {
		return nil, nil
	}

	factory, ok := reg[w.Kind]
	if !ok {
		return nil, errors.New("unknown node kind %q", w.Kind)
	}

	n := factory()

	if ie, ok := n.(idEnsurer); ok {
		ie.EnsureID()
	}

	if ls, ok := n.(locSetter); ok && w.Loc != nil {
		ls.SetLoc(w.Loc)
	}

	if uf, ok := n.(JSONUnfielder); ok && len(w.Fields) > 0 {
		if err := uf.UnmarshalFields(w.Fields); err != nil {
			return nil, errors.Wrap(err, "unmarshal fields of %v", w.Kind)
		}
	}

	for i, cw := range w.Children {
		child, err := decodeNode(cw.Node, reg)
		if err != nil {
			return nil, errors.Wrap(err, "child %s of %v", cw.Slot, w.Kind)
		}

		n.SetChild(i, child)
	}

	if err := n.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate decoded %v", w.Kind)
	}

	return n, nil
}
