// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matrix implements the real-valued sparse matrix kernel used to
// hold per-element and per-circuit coefficient matrices. It accumulates
// triplets the way github.com/cpmech/gosl/la.Triplet does (duplicate
// (row,col) entries sum) and hands off to la.Triplet/la.CCMatrix for the
// dense/compressed forms downstream solvers consume.
package matrix

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

type entry struct {
	i, j int
	v    float64
}

// Sparse is a fixed-shape real sparse matrix. The zero value is not usable;
// construct with Zeros.
type Sparse struct {
	nrow, ncol int
	entries    []entry
}

// Zeros returns an nrow x ncol all-zeros sparse matrix.
func Zeros(nrow, ncol int) *Sparse {
	if nrow < 0 || ncol < 0 {
		chk.Panic("matrix: negative shape (%d, %d)", nrow, ncol)
	}
	return &Sparse{nrow: nrow, ncol: ncol}
}

// Rows returns the number of rows.
func (s *Sparse) Rows() int { return s.nrow }

// Cols returns the number of columns.
func (s *Sparse) Cols() int { return s.ncol }

// Set records a (possibly duplicate) nonzero contribution at (i,j). Several
// Set calls at the same (i,j) accumulate, mirroring la.Triplet's
// duplicate-sums-on-assembly convention.
func (s *Sparse) Set(i, j int, v float64) {
	if i < 0 || i >= s.nrow || j < 0 || j >= s.ncol {
		chk.Panic("matrix: index (%d,%d) out of range for %dx%d matrix", i, j, s.nrow, s.ncol)
	}
	if v == 0 {
		return
	}
	s.entries = append(s.entries, entry{i, j, v})
}

// Canonical sums duplicate (i,j) contributions and drops entries whose sum
// is exactly zero (structural-zero removal, e.g. after a short circuit).
func (s *Sparse) Canonical() []struct {
	I, J int
	V    float64
} {
	sums := make(map[[2]int]float64, len(s.entries))
	order := make([][2]int, 0, len(s.entries))
	for _, e := range s.entries {
		key := [2]int{e.i, e.j}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		sums[key] += e.v
	}
	out := make([]struct {
		I, J int
		V    float64
	}, 0, len(order))
	for _, key := range order {
		v := sums[key]
		if v == 0 {
			continue
		}
		out = append(out, struct {
			I, J int
			V    float64
		}{key[0], key[1], v})
	}
	return out
}

// Triplet builds a fresh *la.Triplet from the canonical entries.
func (s *Sparse) Triplet() *la.Triplet {
	canon := s.Canonical()
	t := new(la.Triplet)
	nnz := len(canon)
	if nnz == 0 {
		nnz = 1 // la.Triplet.Init requires a positive capacity
	}
	t.Init(s.nrow, s.ncol, nnz)
	for _, e := range canon {
		t.Put(e.I, e.J, e.V)
	}
	return t
}

// ToMatrix returns the compressed-column form, as consumed by downstream
// solvers (mirrors fem/essenbcs.go's `Am = A.ToMatrix(nil)`).
func (s *Sparse) ToMatrix() *la.CCMatrix {
	return s.Triplet().ToMatrix(nil)
}

// Dense materializes the matrix as a row-major slice, for tests and small
// circuits only.
func (s *Sparse) Dense() [][]float64 {
	d := make([][]float64, s.nrow)
	for i := range d {
		d[i] = make([]float64, s.ncol)
	}
	for _, e := range s.Canonical() {
		d[e.I][e.J] = e.V
	}
	return d
}

// BlockDiag returns the block-diagonal concatenation of mats, in order —
// blkdiag(mv(e1), mv(e2), ...) when assembling a circuit's matrices from
// its elements'.
func BlockDiag(mats ...*Sparse) *Sparse {
	var nrow, ncol int
	for _, m := range mats {
		nrow += m.Rows()
		ncol += m.Cols()
	}
	out := Zeros(nrow, ncol)
	var roff, coff int
	for _, m := range mats {
		for _, e := range m.Canonical() {
			out.Set(roff+e.I, coff+e.J, e.V)
		}
		roff += m.Rows()
		coff += m.Cols()
	}
	return out
}

// VCat vertically concatenates same-width matrices — used for u0(circuit).
func VCat(mats ...*Sparse) *Sparse {
	if len(mats) == 0 {
		return Zeros(0, 0)
	}
	ncol := mats[0].Cols()
	var nrow int
	for _, m := range mats {
		if m.Cols() != ncol {
			chk.Panic("matrix: VCat column mismatch: %d vs %d", m.Cols(), ncol)
		}
		nrow += m.Rows()
	}
	out := Zeros(nrow, ncol)
	var roff int
	for _, m := range mats {
		for _, e := range m.Canonical() {
			out.Set(roff+e.I, e.J, e.V)
		}
		roff += m.Rows()
	}
	return out
}
