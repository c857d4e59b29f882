package market

import "testing"

func TestPlayerTickerPriceNeverNegative(t *testing.T) {
	rng := NewRNG(42)
	pt := NewPlayerTicker(50, 10)
	for i := 0; i < 100000; i++ {
		pt.Tick(rng)
		if pt.CurrentPrice < 0 {
			t.Fatalf("price went negative at tick %d: %d", i, pt.CurrentPrice)
		}
	}
}

func TestTickDropsExpiredForces(t *testing.T) {
	ti := NewTicker(10)
	ti.AddForce(MarketForce{Pressure: 1, Decay: Instant()})
	if len(ti.Forces) != 1 {
		t.Fatal("expected one force before tick")
	}
	ti.Tick()
	if len(ti.Forces) != 0 {
		t.Fatalf("expected Instant force dropped after one Tick, got %d forces", len(ti.Forces))
	}
}

func TestOnBidPlacedAddsTwoForces(t *testing.T) {
	ti := NewTicker(10)
	ti.OnBidPlaced(800)
	if len(ti.Forces) != 2 {
		t.Fatalf("OnBidPlaced should add 2 forces, got %d", len(ti.Forces))
	}
	if ti.Forces[0].Pressure <= 0 {
		t.Fatal("fast force from OnBidPlaced should have positive pressure")
	}
	if ti.Forces[1].Pressure >= 0 {
		t.Fatal("slow reversion force from OnBidPlaced should have negative pressure")
	}
}

func TestOnAskPlacedOppositeSignToBid(t *testing.T) {
	bidTicker := NewTicker(10)
	bidTicker.OnBidPlaced(800)
	askTicker := NewTicker(10)
	askTicker.OnAskPlaced(800)

	if bidTicker.Forces[0].Pressure != -askTicker.Forces[0].Pressure {
		t.Fatal("OnBidPlaced and OnAskPlaced fast forces should be sign-opposite")
	}
}

func TestForceAgingOrderBeforeDraw(t *testing.T) {
	// A force that expires on this tick must not contribute to the
	// delta drawn on the same tick (age first, then draw).
	ti := NewTicker(1000)
	ti.AddForce(MarketForce{Pressure: 100, Decay: DurationDecay(1)})
	ti.Tick() // ages the force to remaining=0, strength 0, and drops it

	pressure, _ := ti.conditions()
	if pressure != 0 {
		t.Fatalf("expired force still contributes pressure=%f after Tick, want 0", pressure)
	}
	if len(ti.Forces) != 0 {
		t.Fatalf("expired force should be removed from Forces, got %d remaining", len(ti.Forces))
	}
}

func TestEffectivePressureScalesWithDecayStrength(t *testing.T) {
	f := MarketForce{Pressure: 10, Decay: LinearDecay(2)}
	if f.EffectivePressure() != 10 {
		t.Fatalf("fresh force effective pressure = %f, want 10", f.EffectivePressure())
	}
	f = f.Aged()
	if f.EffectivePressure() != 5 {
		t.Fatalf("half-decayed force effective pressure = %f, want 5", f.EffectivePressure())
	}
}
