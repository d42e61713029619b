// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package element

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/circuitdk/expr"
	"github.com/cpmech/circuitdk/matrix"
)

// resistorSpec builds a one-branch, one-loop, purely-resistive element:
// mv = [1], mi = [-r], giving v - r*i = 0.
func resistorSpec(r float64) *Spec {
	mv := matrix.Zeros(1, 1)
	mv.Set(0, 0, 1.0)
	mi := matrix.Zeros(1, 1)
	mi.Set(0, 0, -r)
	return &Spec{Mv: mv, Mi: mi}
}

func TestBuildDefaultsAndAccessors(tst *testing.T) {
	chk.PrintTitle("BuildDefaultsAndAccessors. one resistor, default pins and zero blocks")

	e, err := resistorSpec(100.0).Build()
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	if e.Nb() != 1 || e.Nl() != 1 {
		tst.Errorf("Nb,Nl = %d,%d, want 1,1", e.Nb(), e.Nl())
	}
	if e.Nx() != 0 || e.Nq() != 0 || e.Nu() != 0 {
		tst.Errorf("Nx,Nq,Nu = %d,%d,%d, want 0,0,0", e.Nx(), e.Nq(), e.Nu())
	}
	if e.Ny() != 0 {
		tst.Errorf("Ny = %d, want 0", e.Ny())
	}
	if got := e.U0().Rows(); got != 1 {
		tst.Errorf("U0 rows = %d, want 1 (nl=1)", got)
	}

	if !expr.Equal(e.NonlinearEq(), expr.Block{}) {
		tst.Errorf("default NonlinearEq should be an empty Block, got %v", e.NonlinearEq())
	}

	p1, err := e.Pin("1")
	if err != nil {
		tst.Fatalf("Pin(1) failed: %v", err)
	}
	if len(p1.Terminals) != 1 || p1.Terminals[0].Branch != 1 || p1.Terminals[0].Polarity != 1 {
		tst.Errorf("pin 1 terminals = %v, want [{1 1}]", p1.Terminals)
	}
	p2, err := e.Pin("2")
	if err != nil {
		tst.Fatalf("Pin(2) failed: %v", err)
	}
	if len(p2.Terminals) != 1 || p2.Terminals[0].Polarity != -1 {
		tst.Errorf("pin 2 terminals = %v, want polarity -1", p2.Terminals)
	}

	if _, err := e.Pin("3"); err == nil {
		tst.Errorf("expected error looking up nonexistent pin 3")
	}
}

func TestBuildDimensionConflict(tst *testing.T) {
	chk.PrintTitle("BuildDimensionConflict. mv and mi disagree on nb")

	mv := matrix.Zeros(1, 2)
	mi := matrix.Zeros(1, 3)
	_, err := (&Spec{Mv: mv, Mi: mi}).Build()
	if err == nil {
		tst.Errorf("expected dimension-conflict error, got nil")
	}
}

func TestBuildCustomPinOutOfRange(tst *testing.T) {
	chk.PrintTitle("BuildCustomPinOutOfRange. pin references a branch beyond nb")

	s := resistorSpec(50.0)
	s.Pins = map[string][]Terminal{
		"a": {{Branch: 2, Polarity: 1}},
	}
	_, err := s.Build()
	if err == nil {
		tst.Errorf("expected out-of-range pin error, got nil")
	}
}

func TestBuildCustomPinBadPolarity(tst *testing.T) {
	chk.PrintTitle("BuildCustomPinBadPolarity. pin polarity not +-1")

	s := resistorSpec(50.0)
	s.Pins = map[string][]Terminal{
		"a": {{Branch: 1, Polarity: 0}},
	}
	_, err := s.Build()
	if err == nil {
		tst.Errorf("expected bad-polarity error, got nil")
	}
}

func TestBuildCustomPinMultiTerminal(tst *testing.T) {
	chk.PrintTitle("BuildCustomPinMultiTerminal. one pin ties two terminals together")

	mv := matrix.Zeros(2, 2)
	mv.Set(0, 0, 1.0)
	mv.Set(1, 1, 1.0)
	mi := matrix.Zeros(2, 2)
	mi.Set(0, 0, -1.0)
	mi.Set(1, 1, -1.0)
	s := &Spec{Mv: mv, Mi: mi, Pins: map[string][]Terminal{
		"gang": {{Branch: 1, Polarity: 1}, {Branch: 2, Polarity: 1}},
	}}
	e, err := s.Build()
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	p, err := e.Pin("gang")
	if err != nil {
		tst.Fatalf("Pin(gang) failed: %v", err)
	}
	if len(p.Terminals) != 2 {
		tst.Errorf("gang pin terminals = %v, want 2 entries", p.Terminals)
	}
}

func TestNonlinearEqPreserved(tst *testing.T) {
	chk.PrintTitle("NonlinearEqPreserved. a supplied equation round-trips")

	eq := expr.Call{Head: "=", Args: []expr.Node{
		expr.IndexRef{Name: "res", Idx: []expr.Node{expr.Lit{Value: 0}}},
		expr.IndexRef{Name: "q", Idx: []expr.Node{expr.Lit{Value: 0}}},
	}}
	e, err := (&Spec{Mv: matrix.Zeros(1, 1), NonlinearEq: eq}).Build()
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	if !expr.Equal(e.NonlinearEq(), eq) {
		tst.Errorf("NonlinearEq() = %v, want %v", e.NonlinearEq(), eq)
	}
}
