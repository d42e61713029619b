// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package element implements the immutable per-element bundle of twelve
// sparse coefficient matrices, an optional nonlinear equation, and a pin
// map. Concrete element types (resistors, diodes, transistors, ...) are an
// external collaborator built on top of Spec/Build; this package only
// enforces the cross-matrix dimension consistency and pin-to-branch wiring
// contract.
package element

import (
	"fmt"
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/circuitdk/expr"
	"github.com/cpmech/circuitdk/matrix"
)

// Terminal is one (branch, polarity) pair addressed by a pin, in the
// element's own local branch numbering.
type Terminal struct {
	Branch   int // 1-based, local to the element
	Polarity int // +1 or -1
}

// matrixSlot names each of the twelve coefficient matrices together with
// the pair of dimension symbols it binds: (row symbol, column symbol).
type matrixSlot struct {
	name         string
	rowSym       string
	colSym       string
	get          func(s *Spec) *matrix.Sparse
	set          func(s *Spec, m *matrix.Sparse)
}

var slots = []matrixSlot{
	{"mv", "nl", "nb", func(s *Spec) *matrix.Sparse { return s.Mv }, func(s *Spec, m *matrix.Sparse) { s.Mv = m }},
	{"mi", "nl", "nb", func(s *Spec) *matrix.Sparse { return s.Mi }, func(s *Spec, m *matrix.Sparse) { s.Mi = m }},
	{"mx", "nl", "nx", func(s *Spec) *matrix.Sparse { return s.Mx }, func(s *Spec, m *matrix.Sparse) { s.Mx = m }},
	{"mxd", "nl", "nx", func(s *Spec) *matrix.Sparse { return s.Mxd }, func(s *Spec, m *matrix.Sparse) { s.Mxd = m }},
	{"mq", "nl", "nq", func(s *Spec) *matrix.Sparse { return s.Mq }, func(s *Spec, m *matrix.Sparse) { s.Mq = m }},
	{"mu", "nl", "nu", func(s *Spec) *matrix.Sparse { return s.Mu }, func(s *Spec, m *matrix.Sparse) { s.Mu = m }},
	{"u0", "nl", "n0", func(s *Spec) *matrix.Sparse { return s.U0 }, func(s *Spec, m *matrix.Sparse) { s.U0 = m }},
	{"pv", "ny", "nb", func(s *Spec) *matrix.Sparse { return s.Pv }, func(s *Spec, m *matrix.Sparse) { s.Pv = m }},
	{"pi", "ny", "nb", func(s *Spec) *matrix.Sparse { return s.Pi }, func(s *Spec, m *matrix.Sparse) { s.Pi = m }},
	{"px", "ny", "nx", func(s *Spec) *matrix.Sparse { return s.Px }, func(s *Spec, m *matrix.Sparse) { s.Px = m }},
	{"pxd", "ny", "nx", func(s *Spec) *matrix.Sparse { return s.Pxd }, func(s *Spec, m *matrix.Sparse) { s.Pxd = m }},
	{"pq", "ny", "nq", func(s *Spec) *matrix.Sparse { return s.Pq }, func(s *Spec, m *matrix.Sparse) { s.Pq = m }},
}

// Spec is the builder for an Element: a bag of optional coefficient
// matrices, an optional nonlinear equation, and an optional pin map.
// Construct one, fill in whichever fields the concrete element type
// supplies, and call Build.
type Spec struct {
	Mv, Mi, Mx, Mxd, Mq, Mu, U0     *matrix.Sparse
	Pv, Pi, Px, Pxd, Pq             *matrix.Sparse
	Pins                            map[string][]Terminal
	NonlinearEq                     expr.Node
}

// Build checks that every supplied matrix agrees on the dimension symbols
// it shares with the others, fills in any unsupplied matrix as an
// appropriately-shaped zero block, and returns the resulting immutable
// Element, or an error identifying the conflicting dimension symbol.
func (s *Spec) Build() (*Element, error) {
	sizes := map[string]int{"n0": 1}

	bind := func(sym string, val int) error {
		if prev, ok := sizes[sym]; ok {
			if prev != val {
				return chk.Err("element: inconsistent size for dimension %q: %d vs %d", sym, prev, val)
			}
			return nil
		}
		sizes[sym] = val
		return nil
	}

	for _, sl := range slots {
		m := sl.get(s)
		if m == nil {
			continue
		}
		if err := bind(sl.rowSym, m.Rows()); err != nil {
			return nil, err
		}
		if err := bind(sl.colSym, m.Cols()); err != nil {
			return nil, err
		}
	}

	for _, sl := range slots {
		if sl.get(s) == nil {
			sl.set(s, matrix.Zeros(sizes[sl.rowSym], sizes[sl.colSym]))
		}
	}

	nb := sizes["nb"]

	pins := s.Pins
	if pins == nil {
		pins = defaultPins(nb)
	} else {
		for name, terms := range pins {
			for _, t := range terms {
				if t.Branch < 1 || t.Branch > nb {
					return nil, chk.Err("element: pin %q references branch %d out of range [1,%d]", name, t.Branch, nb)
				}
				if t.Polarity != 1 && t.Polarity != -1 {
					return nil, chk.Err("element: pin %q has polarity %d, want +1 or -1", name, t.Polarity)
				}
			}
		}
	}

	nonlinearEq := s.NonlinearEq
	if nonlinearEq == nil {
		nonlinearEq = expr.Block{}
	}

	return &Element{
		mv: s.Mv, mi: s.Mi, mx: s.Mx, mxd: s.Mxd, mq: s.Mq, mu: s.Mu, u0: s.U0,
		pv: s.Pv, pi: s.Pi, px: s.Px, pxd: s.Pxd, pq: s.Pq,
		pins:        pins,
		nonlinearEq: nonlinearEq,
	}, nil
}

// defaultPins synthesizes the default pin map for an element with nb
// branches: pin "2k-1" is the positive end of branch k, pin "2k" the
// negative end.
func defaultPins(nb int) map[string][]Terminal {
	pins := make(map[string][]Terminal, 2*nb)
	for k := 1; k <= nb; k++ {
		pins[fmt.Sprintf("%d", 2*k-1)] = []Terminal{{Branch: k, Polarity: 1}}
		pins[fmt.Sprintf("%d", 2*k)] = []Terminal{{Branch: k, Polarity: -1}}
	}
	return pins
}

// Element is an immutable bundle of twelve coefficient matrices, a
// nonlinear equation, and a pin map. Elements are safe to share across
// circuits.
type Element struct {
	mv, mi, mx, mxd, mq, mu, u0 *matrix.Sparse
	pv, pi, px, pxd, pq         *matrix.Sparse
	pins                        map[string][]Terminal
	nonlinearEq                 expr.Node
}

func (e *Element) Mv() *matrix.Sparse  { return e.mv }
func (e *Element) Mi() *matrix.Sparse  { return e.mi }
func (e *Element) Mx() *matrix.Sparse  { return e.mx }
func (e *Element) Mxd() *matrix.Sparse { return e.mxd }
func (e *Element) Mq() *matrix.Sparse  { return e.mq }
func (e *Element) Mu() *matrix.Sparse  { return e.mu }
func (e *Element) U0() *matrix.Sparse  { return e.u0 }
func (e *Element) Pv() *matrix.Sparse  { return e.pv }
func (e *Element) Pi() *matrix.Sparse  { return e.pi }
func (e *Element) Px() *matrix.Sparse  { return e.px }
func (e *Element) Pxd() *matrix.Sparse { return e.pxd }
func (e *Element) Pq() *matrix.Sparse  { return e.pq }

// NonlinearEq returns the element's (possibly empty) nonlinear equation.
func (e *Element) NonlinearEq() expr.Node { return e.nonlinearEq }

// Nb, Nx, Nq, Nu, Nl, Ny and Nn report the element's dimension symbols.
func (e *Element) Nb() int { return e.mv.Cols() }
func (e *Element) Nx() int { return e.mx.Cols() }
func (e *Element) Nq() int { return e.mq.Cols() }
func (e *Element) Nu() int { return e.mu.Cols() }
func (e *Element) Nl() int { return e.mv.Rows() }
func (e *Element) Ny() int { return e.pv.Rows() }
func (e *Element) Nn() int { return e.Nb() + e.Nx() + e.Nq() - e.Nl() }

// PinNames returns the element's pin names in sorted order, for stable
// iteration when wiring a circuit.
func (e *Element) PinNames() []string {
	names := make([]string, 0, len(e.pins))
	for n := range e.pins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Terminals returns the (branch, polarity) pairs behind pin name, in the
// element's local branch numbering.
func (e *Element) Terminals(name string) []Terminal {
	return e.pins[name]
}

// Pin is an opaque handle to one of an element's named pins: the element it
// belongs to, plus the terminals that pin addresses.
type Pin struct {
	Element   *Element
	Name      string
	Terminals []Terminal
}

// Pin looks up a named pin. It returns an error if the element has no pin
// by that name.
func (e *Element) Pin(name string) (Pin, error) {
	terms, ok := e.pins[name]
	if !ok {
		return Pin{}, chk.Err("element: unknown pin %q", name)
	}
	return Pin{Element: e, Name: name, Terminals: terms}, nil
}
