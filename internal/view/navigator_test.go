package view

import "testing"

func TestNavigatorWrapsForward(t *testing.T) {
	n := NewNavigator([]int{2, 5, 7})
	if !n.Select(7) {
		t.Fatal("Select(7) failed")
	}
	if got := n.Next(); got != 2 {
		t.Fatalf("Next from 7 = %d, want 2", got)
	}
}

func TestNavigatorWrapsBackward(t *testing.T) {
	n := NewNavigator([]int{2, 5, 7})
	if got := n.Prev(); got != 7 {
		t.Fatalf("Prev from 2 = %d, want 7", got)
	}
}

func TestNavigatorStepsThroughList(t *testing.T) {
	n := NewNavigator([]int{2, 5, 7})
	if got := n.Next(); got != 5 {
		t.Fatalf("Next = %d, want 5", got)
	}
	if got := n.Next(); got != 7 {
		t.Fatalf("Next = %d, want 7", got)
	}
	if got := n.Prev(); got != 5 {
		t.Fatalf("Prev = %d, want 5", got)
	}
}

func TestNavigatorReanchorsWhenSelectionVanishes(t *testing.T) {
	n := NewNavigator([]int{2, 5, 7})
	n.Select(5)
	n.SetVisible([]int{2, 7})
	if got := n.Current(); got != 2 {
		t.Fatalf("Current after vanish = %d, want 2", got)
	}
}

func TestNavigatorKeepsSelectionAcrossSetVisible(t *testing.T) {
	n := NewNavigator([]int{2, 5, 7})
	n.Select(5)
	n.SetVisible([]int{0, 5, 9})
	if got := n.Current(); got != 5 {
		t.Fatalf("Current = %d, want 5", got)
	}
}

func TestNavigatorEmptyList(t *testing.T) {
	n := NewNavigator(nil)
	if got := n.Current(); got != -1 {
		t.Fatalf("Current = %d, want -1", got)
	}
	if got := n.Next(); got != -1 {
		t.Fatalf("Next = %d, want -1", got)
	}
	n.SetVisible([]int{3})
	if got := n.Current(); got != 3 {
		t.Fatalf("Current after SetVisible = %d, want 3", got)
	}
}

func TestNavigatorSelectRejectsHiddenIndex(t *testing.T) {
	n := NewNavigator([]int{2, 5})
	if n.Select(9) {
		t.Fatal("Select of hidden index should fail")
	}
	if got := n.Current(); got != 2 {
		t.Fatalf("Current = %d, want unchanged 2", got)
	}
}
