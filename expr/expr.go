// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr implements a small homoiconic expression tree for the
// nonlinear equations attached to circuit elements. A node either assigns
// into res[i]/J[i,j] as a function of q[k] (an IndexRef under a Call), or
// is an opaque structural node traversed and rewritten without
// interpretation.
package expr

import (
	"fmt"
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Node is any element of the expression tree. Implementations are value
// types; Rewrite never mutates a Node in place, it returns a new tree.
type Node interface {
	String() string
	isNode()
}

// Lit is a literal numeric constant.
type Lit struct {
	Value float64
}

func (Lit) isNode() {}
func (l Lit) String() string {
	return fmt.Sprintf("%g", l.Value)
}

// Var is a bare named symbol (a variable reference with no indices).
type Var struct {
	Name string
}

func (Var) isNode() {}
func (v Var) String() string { return v.Name }

// Call is a composite node: a head tag plus an ordered list of children.
// Indexed references are the separate IndexRef node, not a Call head; every
// Call head is opaque and only ever traversed structurally.
type Call struct {
	Head string
	Args []Node
}

func (Call) isNode() {}
func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Head, strings.Join(parts, ", "))
}

// IndexRef is name[idx0, idx1, ...]. This is the one node shape Rewrite
// understands and transforms.
type IndexRef struct {
	Name string
	Idx  []Node
}

func (IndexRef) isNode() {}
func (r IndexRef) String() string {
	parts := make([]string, len(r.Idx))
	for i, a := range r.Idx {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", r.Name, strings.Join(parts, ", "))
}

// Block is a sequence of statements, evaluated in order.
type Block struct {
	Stmts []Node
}

func (Block) isNode() {}
func (b Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Scope wraps a subtree in a fresh lexical scope so element-local auxiliary
// bindings introduced by Body cannot leak into sibling elements once
// combined into a circuit-wide Block.
type Scope struct {
	Body Node
}

func (Scope) isNode() {}
func (s Scope) String() string { return "scope{ " + s.Body.String() + " }" }

// Add returns offset + idx, using a plain opaque "+" Call so downstream
// consumers that don't care about index rewriting can still walk it
// structurally like any other node.
func Add(offset int, idx Node) Node {
	return Call{Head: "+", Args: []Node{Lit{Value: float64(offset)}, idx}}
}

// Offsets gives, for each reserved name the rewriter understands, the tuple
// of offsets to add to each of that name's index positions. The tuple
// length is the expected indexing arity for that name.
type Offsets map[string][]int

// Rewrite walks n and, for every IndexRef whose target name is a key of
// offs, replaces each index expression e_i with offs_i + e_i. The arity of
// the IndexRef must match len(offs[name]); a bare Var with a reserved name
// (used without indexing) is also an error. Every other node is traversed
// structurally and reconstructed unchanged around its rewritten children.
func Rewrite(n Node, offs Offsets) (Node, error) {
	switch t := n.(type) {
	case Lit:
		return t, nil
	case Var:
		if off, ok := offs[t.Name]; ok {
			return nil, chk.Err("expr: %q used without indexing but requires %d index(es)", t.Name, len(off))
		}
		return t, nil
	case IndexRef:
		newIdx := make([]Node, len(t.Idx))
		for i, e := range t.Idx {
			rw, err := Rewrite(e, offs)
			if err != nil {
				return nil, err
			}
			newIdx[i] = rw
		}
		off, ok := offs[t.Name]
		if !ok {
			return IndexRef{Name: t.Name, Idx: newIdx}, nil
		}
		if len(off) != len(newIdx) {
			return nil, chk.Err("expr: %q indexed with %d index(es) but offsets require %d", t.Name, len(newIdx), len(off))
		}
		shifted := make([]Node, len(newIdx))
		for i, e := range newIdx {
			shifted[i] = Add(off[i], e)
		}
		return IndexRef{Name: t.Name, Idx: shifted}, nil
	case Call:
		newArgs := make([]Node, len(t.Args))
		for i, a := range t.Args {
			rw, err := Rewrite(a, offs)
			if err != nil {
				return nil, err
			}
			newArgs[i] = rw
		}
		return Call{Head: t.Head, Args: newArgs}, nil
	case Block:
		newStmts := make([]Node, len(t.Stmts))
		for i, s := range t.Stmts {
			rw, err := Rewrite(s, offs)
			if err != nil {
				return nil, err
			}
			newStmts[i] = rw
		}
		return Block{Stmts: newStmts}, nil
	case Scope:
		rw, err := Rewrite(t.Body, offs)
		if err != nil {
			return nil, err
		}
		return Scope{Body: rw}, nil
	default:
		chk.Panic("expr: unknown node type %T", n)
		return nil, nil
	}
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case Lit:
		bv, ok := b.(Lit)
		return ok && av.Value == bv.Value
	case Var:
		bv, ok := b.(Var)
		return ok && av.Name == bv.Name
	case IndexRef:
		bv, ok := b.(IndexRef)
		if !ok || av.Name != bv.Name || len(av.Idx) != len(bv.Idx) {
			return false
		}
		for i := range av.Idx {
			if !Equal(av.Idx[i], bv.Idx[i]) {
				return false
			}
		}
		return true
	case Call:
		bv, ok := b.(Call)
		if !ok || av.Head != bv.Head || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case Block:
		bv, ok := b.(Block)
		if !ok || len(av.Stmts) != len(bv.Stmts) {
			return false
		}
		for i := range av.Stmts {
			if !Equal(av.Stmts[i], bv.Stmts[i]) {
				return false
			}
		}
		return true
	case Scope:
		bv, ok := b.(Scope)
		return ok && Equal(av.Body, bv.Body)
	default:
		chk.Panic("expr: unknown node type %T", a)
		return false
	}
}
