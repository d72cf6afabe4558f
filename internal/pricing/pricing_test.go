package pricing

import "testing"

// Опорный сценарий: entrecôte (89 за 100 г) на 500 г → round(89×500/100) = 445.
func TestPrice_KnownProducts(t *testing.T) {
	cases := []struct {
		productID string
		weight    int
		want      int64
	}{
		{"entrecote", 500, 445},
		{"entrecote", 1000, 890},
		{"ryggbiff", 750, 518},       // 69 × 7.5 = 517.5 → 518
		{"oxfile", 350, 522},         // 149 × 3.5 = 521.5 → 522
		{"flaskfile", 350, 158},      // 45 × 3.5 = 157.5 → 158
		{"lammkotletter", 1250, 1188}, // 95 × 12.5 = 1187.5 → 1188
		{"familjepaket", 2000, 1100},
	}

	for _, tc := range cases {
		if got := Price(tc.productID, tc.weight); got != tc.want {
			t.Fatalf("Price(%s, %d): want %d, got %d", tc.productID, tc.weight, tc.want, got)
		}
	}
}

// Неизвестный товар — ставка по умолчанию, без пути ошибки.
func TestPrice_UnknownProduct_DefaultRate(t *testing.T) {
	if got := Price("viltskav", 500); got != 250 {
		t.Fatalf("want default-rate 250, got %d", got)
	}
}

// Произвольный положительный вес масштабируется линейно.
func TestPrice_ArbitraryWeight(t *testing.T) {
	if got := Price("entrecote", 123); got != 109 { // 89 × 1.23 = 109.47 → 109
		t.Fatalf("want 109, got %d", got)
	}
}

func TestPrice_Deterministic(t *testing.T) {
	first := Price("oxfile", 2500)
	for i := 0; i < 100; i++ {
		if got := Price("oxfile", 2500); got != first {
			t.Fatalf("price not deterministic: %d != %d", got, first)
		}
	}
}

func TestPricePerKg(t *testing.T) {
	// 445 за 500 г → 890 кр/кг.
	if got := PricePerKg(445, 500); got != 890 {
		t.Fatalf("want 890, got %v", got)
	}
	// 158 за 350 г → 451.43 после округления до 2 знаков.
	if got := PricePerKg(158, 350); got != 451.43 {
		t.Fatalf("want 451.43, got %v", got)
	}
	if got := PricePerKg(100, 0); got != 0 {
		t.Fatalf("zero weight must yield 0, got %v", got)
	}
}

func TestWeightTiers_CopyAndBounds(t *testing.T) {
	tiers := WeightTiers()
	if len(tiers) != 11 || tiers[0] != 350 || tiers[len(tiers)-1] != 5000 {
		t.Fatalf("unexpected tier set: %v", tiers)
	}

	tiers[0] = 1
	if WeightTiers()[0] != 350 {
		t.Fatalf("WeightTiers must return a copy")
	}
}

func TestIsKnownProduct(t *testing.T) {
	if !IsKnownProduct("entrecote") {
		t.Fatalf("entrecote must be known")
	}
	if IsKnownProduct("viltskav") {
		t.Fatalf("viltskav must be unknown")
	}
}
