// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package circuit assembles element.Element values into a whole circuit:
// net merging over pin connections, block-diagonal matrix assembly, offset
// rewriting of per-element nonlinear equations, and the branch-net
// incidence matrix fed into topo.Topomat.
package circuit

import (
	"log"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/circuitdk/element"
	"github.com/cpmech/circuitdk/expr"
	"github.com/cpmech/circuitdk/matrix"
	"github.com/cpmech/circuitdk/topo"
)

// Net is an equivalence class of electrically connected pins: an ordered
// list of (branch, polarity) pairs in whole-circuit branch numbering.
// Net identity is its pointer; merging a net into another appends entries
// to the survivor rather than allocating a new Net, so any previously
// obtained *Net stays valid.
type Net struct {
	Entries []topo.Entry
}

// String returns a compact representation of the net's entries.
func (n *Net) String() string {
	l := "{ "
	for _, e := range n.Entries {
		l += io.Sf("(%d,%+d) ", e.Branch, e.Polarity)
	}
	return l + "}"
}

// Circuit holds an ordered list of elements (insertion order fixes the
// whole-circuit branch/state/nonlinear-variable numbering), the current
// list of nets, and a map from user-chosen net names to net handles that
// stays correct across merges.
type Circuit struct {
	elements []*element.Element
	nets     []*Net
	names    map[string]*Net
}

// New returns an empty circuit.
func New() *Circuit {
	return &Circuit{names: make(map[string]*Net)}
}

// Add appends elements not already present (by pointer identity) to the
// circuit, each contributing one singleton net per pin.
func (c *Circuit) Add(elements ...*element.Element) {
	for _, e := range elements {
		c.add(e)
	}
}

func (c *Circuit) add(e *element.Element) {
	for _, existing := range c.elements {
		if existing == e {
			return
		}
	}
	offset := c.Nb()
	c.elements = append(c.elements, e)
	for _, name := range e.PinNames() {
		terms := e.Terminals(name)
		entries := make([]topo.Entry, len(terms))
		for i, t := range terms {
			entries[i] = topo.Entry{Branch: offset + t.Branch, Polarity: t.Polarity}
		}
		c.nets = append(c.nets, &Net{Entries: entries})
	}
}

// BranchOffset returns the sum of nb over elements preceding e in insertion
// order, or an error if e is not in the circuit.
func (c *Circuit) BranchOffset(e *element.Element) (int, error) {
	offset := 0
	for _, existing := range c.elements {
		if existing == e {
			return offset, nil
		}
		offset += existing.Nb()
	}
	return 0, chk.Err("circuit: element not present")
}

// NetForPin adds pin's element if needed, then returns the net currently
// holding any of the pin's terminals.
func (c *Circuit) NetForPin(p element.Pin) (*Net, error) {
	c.add(p.Element)
	offset, err := c.BranchOffset(p.Element)
	if err != nil {
		return nil, err
	}
	for _, t := range p.Terminals {
		target := topo.Entry{Branch: offset + t.Branch, Polarity: t.Polarity}
		for _, n := range c.nets {
			for _, e := range n.Entries {
				if e == target {
					return n, nil
				}
			}
		}
	}
	return nil, chk.Err("circuit: pin %q not found in any net", p.Name)
}

// NetForName looks up a user-declared net name, creating an empty net and
// registering it under that name on first use. This is how named nets
// (e.g. "gnd") enter the partition before any pin connects to them.
func (c *Circuit) NetForName(name string) *Net {
	if n, ok := c.names[name]; ok {
		return n
	}
	n := &Net{}
	c.names[name] = n
	c.nets = append(c.nets, n)
	return n
}

// Connect resolves each argument (an element.Pin or a net name string) to
// its net, deduplicated in first-seen order, then merges every net after
// the first into it: the first net's identity and name bindings persist,
// the others are absorbed and dropped from the circuit's net list, and any
// name bound to an absorbed net is rebound to the survivor.
func (c *Circuit) Connect(args ...interface{}) error {
	var nets []*Net
	seen := make(map[*Net]bool)
	for _, a := range args {
		var n *Net
		switch v := a.(type) {
		case element.Pin:
			var err error
			n, err = c.NetForPin(v)
			if err != nil {
				return err
			}
		case string:
			n = c.NetForName(v)
		default:
			chk.Panic("circuit: connect argument must be element.Pin or string, got %T", a)
		}
		if !seen[n] {
			seen[n] = true
			nets = append(nets, n)
		}
	}
	if len(nets) == 0 {
		return nil
	}
	survivor := nets[0]
	for _, n := range nets[1:] {
		survivor.Entries = append(survivor.Entries, n.Entries...)
		c.removeNet(n)
		for name, bound := range c.names {
			if bound == n {
				c.names[name] = survivor
			}
		}
	}
	return nil
}

func (c *Circuit) removeNet(n *Net) {
	for i, x := range c.nets {
		if x == n {
			c.nets = append(c.nets[:i], c.nets[i+1:]...)
			return
		}
	}
}

// Nets returns the circuit's current nets, in their internal order. The
// slice is a copy; mutating it does not affect the circuit.
func (c *Circuit) Nets() []*Net {
	out := make([]*Net, len(c.nets))
	copy(out, c.nets)
	return out
}

func (c *Circuit) sumDim(dim func(*element.Element) int) int {
	var total int
	for _, e := range c.elements {
		total += dim(e)
	}
	return total
}

func (c *Circuit) Nb() int { return c.sumDim((*element.Element).Nb) }
func (c *Circuit) Nx() int { return c.sumDim((*element.Element).Nx) }
func (c *Circuit) Nq() int { return c.sumDim((*element.Element).Nq) }
func (c *Circuit) Nu() int { return c.sumDim((*element.Element).Nu) }
func (c *Circuit) Nl() int { return c.sumDim((*element.Element).Nl) }
func (c *Circuit) Ny() int { return c.sumDim((*element.Element).Ny) }
func (c *Circuit) Nn() int { return c.sumDim((*element.Element).Nn) }

func (c *Circuit) blockDiag(get func(*element.Element) *matrix.Sparse) *matrix.Sparse {
	mats := make([]*matrix.Sparse, len(c.elements))
	for i, e := range c.elements {
		mats[i] = get(e)
	}
	return matrix.BlockDiag(mats...)
}

func (c *Circuit) Mv() *matrix.Sparse  { return c.blockDiag((*element.Element).Mv) }
func (c *Circuit) Mi() *matrix.Sparse  { return c.blockDiag((*element.Element).Mi) }
func (c *Circuit) Mx() *matrix.Sparse  { return c.blockDiag((*element.Element).Mx) }
func (c *Circuit) Mxd() *matrix.Sparse { return c.blockDiag((*element.Element).Mxd) }
func (c *Circuit) Mq() *matrix.Sparse  { return c.blockDiag((*element.Element).Mq) }
func (c *Circuit) Mu() *matrix.Sparse  { return c.blockDiag((*element.Element).Mu) }
func (c *Circuit) Pv() *matrix.Sparse  { return c.blockDiag((*element.Element).Pv) }
func (c *Circuit) Pi() *matrix.Sparse  { return c.blockDiag((*element.Element).Pi) }
func (c *Circuit) Px() *matrix.Sparse  { return c.blockDiag((*element.Element).Px) }
func (c *Circuit) Pxd() *matrix.Sparse { return c.blockDiag((*element.Element).Pxd) }
func (c *Circuit) Pq() *matrix.Sparse  { return c.blockDiag((*element.Element).Pq) }

// U0 is the vertical concatenation of each element's u0, in insertion
// order (u0 is not block-diagonal: every element shares the same n0=1
// column).
func (c *Circuit) U0() *matrix.Sparse {
	mats := make([]*matrix.Sparse, len(c.elements))
	for i, e := range c.elements {
		mats[i] = e.U0()
	}
	return matrix.VCat(mats...)
}

// NonlinearEq returns the circuit's combined nonlinear equation: each
// element's tree rewritten so its q/J/res indices land at the element's
// global offset within the circuit's stacked state/residual/Jacobian, then
// wrapped in its own scope and collected into one block, in insertion
// order.
func (c *Circuit) NonlinearEq() (expr.Node, error) {
	stmts := make([]expr.Node, 0, len(c.elements))
	rowOff, colOff := 0, 0
	for _, e := range c.elements {
		offs := expr.Offsets{
			"q":   {colOff},
			"J":   {rowOff, colOff},
			"res": {rowOff},
		}
		rw, err := expr.Rewrite(e.NonlinearEq(), offs)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, expr.Scope{Body: rw})
		rowOff += e.Nn()
		colOff += e.Nq()
	}
	return expr.Block{Stmts: stmts}, nil
}

// Incidence builds the circuit's signed branch-net incidence matrix: one
// row per current net, Nb() columns.
func (c *Circuit) Incidence() topo.Matrix {
	nets := make([][]topo.Entry, len(c.nets))
	for i, n := range c.nets {
		nets[i] = n.Entries
	}
	return topo.BuildIncidence(nets, c.Nb())
}

// Topomat runs the Gauss-Jordan-over-GF(±1) topology reduction on the
// circuit's incidence matrix, returning the tie matrix tv and the cutset
// matrix ti.
func (c *Circuit) Topomat() (tv, ti topo.Matrix) {
	return topo.Topomat(c.Incidence())
}

// Stats logs a one-line summary of the circuit's dimension symbols and net
// count. It is a manual diagnostic, never called automatically by add or
// connect.
func (c *Circuit) Stats() {
	log.Printf("circuit: %s", utl.Sf("nb=%d nx=%d nq=%d nu=%d nl=%d ny=%d nn=%d nets=%d",
		c.Nb(), c.Nx(), c.Nq(), c.Nu(), c.Nl(), c.Ny(), c.Nn(), len(c.nets)))
}

// DumpNets logs every current net, one per line, for interactive
// debugging.
func (c *Circuit) DumpNets() {
	for i, n := range c.nets {
		var name string
		for nm, bound := range c.names {
			if bound == n {
				name = nm
				break
			}
		}
		log.Printf("circuit: net[%d] %s %s", i, name, n.String())
	}
}
