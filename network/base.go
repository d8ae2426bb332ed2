package network

import "github.com/latticeforge/rete"

// base carries the identity fields spec.md §4.D requires of every beta
// node — an ID, a description, and its join-keys — so each concrete
// node type only has to embed it rather than re-declare the accessors.
type base struct {
	id          string
	kind        rete.NodeKind
	description string
	joinKeys    []rete.Var
}

func (b *base) NodeID() string       { return b.id }
func (b *base) Kind() rete.NodeKind  { return b.kind }
func (b *base) JoinKeys() []rete.Var { return b.joinKeys }
func (b *base) Description() string  { return b.description }
