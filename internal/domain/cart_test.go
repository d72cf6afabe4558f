package domain

import "testing"

func sampleCart() Cart {
	return Cart{
		{ID: "entrecote_500", ProductID: "entrecote", Name: "Entrecôte", WeightGrams: 500, UnitPrice: 445, Quantity: 2, AddedAtMillis: 1},
		{ID: "flaskfile_350", ProductID: "flaskfile", Name: "Fläskfilé", WeightGrams: 350, UnitPrice: 158, Quantity: 1, AddedAtMillis: 2},
	}
}

func TestEqual_Structural(t *testing.T) {
	a := sampleCart()
	b := sampleCart()

	if !a.Equal(b) {
		t.Fatalf("expected structural equality")
	}

	b[1].Quantity = 3
	if a.Equal(b) {
		t.Fatalf("expected inequality after quantity change")
	}

	if !(Cart{}).Equal(nil) {
		t.Fatalf("empty and nil carts must compare equal")
	}
}

func TestClone_Independent(t *testing.T) {
	a := sampleCart()
	b := a.Clone()

	b[0].Quantity = 99
	if a[0].Quantity != 2 {
		t.Fatalf("clone shares memory with original")
	}
}

func TestSubtotalAndCount(t *testing.T) {
	c := sampleCart()

	if got := c.Subtotal(); got != 2*445+158 {
		t.Fatalf("Subtotal: want %d, got %d", 2*445+158, got)
	}
	if got := c.ItemCount(); got != 3 {
		t.Fatalf("ItemCount: want 3, got %d", got)
	}
}

func TestFindIndex(t *testing.T) {
	c := sampleCart()

	if i := c.FindIndex("flaskfile_350"); i != 1 {
		t.Fatalf("FindIndex: want 1, got %d", i)
	}
	if i := c.FindIndex("ghost_100"); i != -1 {
		t.Fatalf("FindIndex missing: want -1, got %d", i)
	}
}

func TestItemID(t *testing.T) {
	if got := ItemID("entrecote", 500); got != "entrecote_500" {
		t.Fatalf("ItemID: got %q", got)
	}
}
