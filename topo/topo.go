// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topo

import "github.com/cpmech/gosl/chk"

// Matrix is a read-only view over a signed-integer sparse matrix: the
// incidence matrix, or one of topomat's tv/ti results.
type Matrix struct {
	m *intMatrix
}

// Rows returns the number of rows.
func (x Matrix) Rows() int { return x.m.Rows() }

// Cols returns the number of columns.
func (x Matrix) Cols() int { return x.m.Cols() }

// At returns the entry at (r,c), 0 if absent.
func (x Matrix) At(r, c int) int { return x.m.At(r, c) }

// Dense materializes the matrix as a row-major [][]int, for tests and
// small circuits.
func (x Matrix) Dense() [][]int { return x.m.dense() }

// ColSums returns, for each column, the sum of its entries — used to check
// the topomat precondition that every branch column sums to zero.
func (x Matrix) ColSums() []int {
	sums := make([]int, x.m.Cols())
	for _, row := range x.m.rows {
		for c, v := range row {
			sums[c] += v
		}
	}
	return sums
}

// Entry addresses one (branch, polarity) pair in whole-circuit branch
// numbering, as found in a Net.
type Entry struct {
	Branch   int // 1-based branch index in whole-circuit numbering
	Polarity int // +1 or -1
}

// BuildIncidence constructs the circuit's signed incidence matrix: one row
// per net (in the given order), nb columns. Entry (r,b) is the polarity of
// branch b+1 in net r, or 0 if branch b+1 does not appear in that net.
// Entries are accumulated and summed; a branch whose two terminals land in
// the same net (a short circuit) cancels to a structural zero that never
// appears in the result.
func BuildIncidence(nets [][]Entry, nb int) Matrix {
	m := newIntMatrix(len(nets), nb)
	for r, entries := range nets {
		for _, e := range entries {
			if e.Branch < 1 || e.Branch > nb {
				chk.Panic("topo: incidence entry references branch %d out of range [1,%d]", e.Branch, nb)
			}
			if e.Polarity != 1 && e.Polarity != -1 {
				chk.Panic("topo: incidence entry has polarity %d, want +1 or -1", e.Polarity)
			}
			m.add(r, e.Branch-1, e.Polarity)
		}
	}
	return Matrix{m}
}

// Topomat runs a Gauss-Jordan-over-GF(±1) reduction on the incidence matrix
// A (rows = nets, cols = branches), returning the tie matrix tv and the
// cutset matrix ti. A is never mutated; the algorithm runs on an internal
// copy.
//
// Topomat panics, rather than returning an error, if a branch column has
// more than two nonzero candidate rows, or if two candidate rows in the
// same column fail to sum to zero: both indicate a branch that does not
// appear in exactly two net endpoints, i.e. a malformed circuit topology
// rather than bad runtime input.
func Topomat(a Matrix) (tv, ti Matrix) {
	m := a.m.clone()
	ncols := m.Cols()
	isTree := make([]bool, ncols)
	row := 0

	for col := 0; col < ncols; col++ {
		cand := m.colNonzeros(col, row)
		if len(cand) == 0 {
			continue
		}
		if len(cand) > 2 {
			chk.Panic("topo: branch column %d has %d nonzero candidates below row %d, want <= 2 (branch in more than two nets)", col, len(cand), row)
		}
		isTree[col] = true
		pivot := cand[0]
		if pivot != row {
			m.swapRows(pivot, row)
			cand = m.colNonzeros(col, row)
		}
		if len(cand) == 2 {
			r2 := cand[1]
			if m.At(row, col)+m.At(r2, col) != 0 {
				chk.Panic("topo: branch column %d has two entries at rows %d,%d that do not sum to zero (%d + %d)", col, row, r2, m.At(row, col), m.At(r2, col))
			}
			m.addRowMultiple(r2, row, 1)
		}
		if m.At(row, col) < 0 {
			m.scaleRow(row, -1)
		}
		for rp := 0; rp < row; rp++ {
			switch m.At(rp, col) {
			case 1:
				m.addRowMultiple(rp, row, -1)
			case -1:
				m.addRowMultiple(rp, row, 1)
			}
		}
		row++
	}

	tiM := m.subRows(row)

	var treeCols, linkCols []int
	for c, t := range isTree {
		if t {
			treeCols = append(treeCols, c)
		} else {
			linkCols = append(linkCols, c)
		}
	}

	dl := tiM.subCols(linkCols)
	dlT := dl.transpose() // len(linkCols) x row

	tvM := newIntMatrix(len(linkCols), ncols)
	for i, tc := range treeCols {
		for lc := 0; lc < len(linkCols); lc++ {
			if v := dlT.At(lc, i); v != 0 {
				tvM.set(lc, tc, -v)
			}
		}
	}
	for i, lc := range linkCols {
		tvM.add(i, lc, 1)
	}

	return Matrix{tvM}, Matrix{tiM}
}
