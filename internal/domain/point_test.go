package domain

import (
	"testing"
)

func TestPointSet_Select(t *testing.T) {
	ps := NewPointSet(3, 1e-6)
	ps.Add(Point{T0: 0, T1: 4, Jobs: []int{1}, Demand: 4})
	ps.Add(Point{T0: 0, T1: 8, Jobs: []int{2}, Demand: 8})

	if ps.NumPoints != 2 {
		t.Fatalf("expected 2 points, got %d", ps.NumPoints)
	}

	if err := ps.Select([]int{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.NumSel != 1 || ps.Selected[0] != 1 {
		t.Errorf("expected selection [1], got %v (num_sel=%d)", ps.Selected, ps.NumSel)
	}

	if err := ps.Select([]int{2}); err == nil {
		t.Error("expected error for out of range index")
	}
	if ps.NumSel != 1 {
		t.Errorf("expected failed Select to keep previous selection, got num_sel=%d", ps.NumSel)
	}

	ps.ResetSelection()
	if ps.NumSel != 0 || len(ps.Selected) != 0 {
		t.Errorf("expected empty selection after reset, got %v", ps.Selected)
	}
}

func TestPoint_Ratio(t *testing.T) {
	p := Point{T0: 1, T1: 4, Demand: 6}
	if p.Length() != 3 {
		t.Errorf("expected length 3, got %v", p.Length())
	}
	if p.Ratio() != 0.5 {
		t.Errorf("expected ratio 0.5, got %v", p.Ratio())
	}
}
