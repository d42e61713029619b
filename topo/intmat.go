// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package topo implements the signed-integer incidence matrix and the
// Gauss-Jordan-over-GF(±1) topology reduction (topomat) that derives the
// Kirchhoff tie/cutset matrices from it.
//
// github.com/cpmech/gosl/la.Triplet is an append-only COO accumulator with
// no row-swap/row-add support, so it cannot back the in-place pivoting
// topomat needs; intMatrix is a small bespoke mutable sparse row store
// built for that purpose (row swap/scale/add and column nonzero search).
package topo

import "github.com/cpmech/gosl/chk"

// intMatrix is a mutable sparse matrix of signed integers, stored as one
// map per row.
type intMatrix struct {
	nrow, ncol int
	rows       []map[int]int
}

func newIntMatrix(nrow, ncol int) *intMatrix {
	m := &intMatrix{nrow: nrow, ncol: ncol, rows: make([]map[int]int, nrow)}
	for i := range m.rows {
		m.rows[i] = make(map[int]int)
	}
	return m
}

func (m *intMatrix) Rows() int { return m.nrow }
func (m *intMatrix) Cols() int { return m.ncol }

// At returns the entry at (r,c), defaulting to 0.
func (m *intMatrix) At(r, c int) int { return m.rows[r][c] }

// add accumulates v into (r,c), removing the entry entirely if the sum is
// zero so nonzero-structure queries never see a structural zero.
func (m *intMatrix) add(r, c, v int) {
	nv := m.rows[r][c] + v
	if nv == 0 {
		delete(m.rows[r], c)
	} else {
		m.rows[r][c] = nv
	}
}

// set overwrites the entry at (r,c), removing it if v is zero.
func (m *intMatrix) set(r, c, v int) {
	if v == 0 {
		delete(m.rows[r], c)
		return
	}
	m.rows[r][c] = v
}

// clone returns a deep copy.
func (m *intMatrix) clone() *intMatrix {
	out := newIntMatrix(m.nrow, m.ncol)
	for r, row := range m.rows {
		for c, v := range row {
			out.rows[r][c] = v
		}
	}
	return out
}

// swapRows exchanges rows a and b in place.
func (m *intMatrix) swapRows(a, b int) {
	m.rows[a], m.rows[b] = m.rows[b], m.rows[a]
}

// scaleRow multiplies every entry of row r by s.
func (m *intMatrix) scaleRow(r, s int) {
	if s == 0 {
		chk.Panic("topo: scaleRow by zero is not invertible")
	}
	for c, v := range m.rows[r] {
		m.rows[r][c] = v * s
	}
}

// addRowMultiple performs row[dst] += s * row[src].
func (m *intMatrix) addRowMultiple(dst, src, s int) {
	for c, v := range m.rows[src] {
		m.add(dst, c, s*v)
	}
}

// colNonzeros returns the rows >= fromRow with a nonzero entry in column c,
// in ascending row order.
func (m *intMatrix) colNonzeros(c, fromRow int) []int {
	var rs []int
	for r := fromRow; r < m.nrow; r++ {
		if _, ok := m.rows[r][c]; ok {
			rs = append(rs, r)
		}
	}
	return rs
}

// subRows returns a new matrix holding rows [0, n).
func (m *intMatrix) subRows(n int) *intMatrix {
	out := newIntMatrix(n, m.ncol)
	for r := 0; r < n; r++ {
		for c, v := range m.rows[r] {
			out.rows[r][c] = v
		}
	}
	return out
}

// subCols returns a new matrix with only the given columns, renumbered
// 0..len(cols)-1 in the given order.
func (m *intMatrix) subCols(cols []int) *intMatrix {
	out := newIntMatrix(m.nrow, len(cols))
	for newc, oldc := range cols {
		for r := 0; r < m.nrow; r++ {
			if v, ok := m.rows[r][oldc]; ok {
				out.rows[r][newc] = v
			}
		}
	}
	return out
}

// transpose returns the transpose.
func (m *intMatrix) transpose() *intMatrix {
	out := newIntMatrix(m.ncol, m.nrow)
	for r, row := range m.rows {
		for c, v := range row {
			out.rows[c][r] = v
		}
	}
	return out
}

// dense materializes the matrix, for tests.
func (m *intMatrix) dense() [][]int {
	d := make([][]int, m.nrow)
	for r := range d {
		d[r] = make([]int, m.ncol)
		for c, v := range m.rows[r] {
			d[r][c] = v
		}
	}
	return d
}
