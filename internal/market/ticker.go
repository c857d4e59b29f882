package market

// Ticker drives one player's privately-perceived price series. Each
// hook below is called for every player's ticker on the corresponding
// market event, per the per-player price-series design note: a bid
// placed by player A still perturbs player B's price, but B's own
// current_price evolves independently of A's.
type Ticker struct {
	BaseVolatility int32
	BasePressure   int32
	Forces         []MarketForce
}

// NewTicker creates a ticker with the given base volatility (the
// configured max_price_delta) and zero base pressure.
func NewTicker(baseVolatility int32) *Ticker {
	return &Ticker{BaseVolatility: baseVolatility}
}

// conditions aggregates the effective pressure and volatility
// contributed by every live force.
func (t *Ticker) conditions() (pressure, volatility float32) {
	for _, f := range t.Forces {
		pressure += f.EffectivePressure()
		volatility += f.EffectiveVolatility()
	}
	return pressure, volatility
}

// NextDelta draws the signed price delta for the current tick:
// uniform(-V, +V) + P, where V and P incorporate the live forces'
// effective pressure/volatility scaled by BaseVolatility.
func (t *Ticker) NextDelta(rng *RNG) int32 {
	pressure, volatility := t.conditions()

	v := t.BaseVolatility + int32(volatility*float32(t.BaseVolatility))
	p := t.BasePressure + int32(pressure*float32(t.BaseVolatility))

	if v < 0 {
		v = 0
	}
	noise := int32(0)
	if v > 0 {
		noise = int32(rng.IntRange(-int(v), int(v)))
	}
	return noise + p
}

// Tick ages every force by one step, then drops any force whose decay
// strength has reached zero. Aging happens before NextDelta is drawn
// for the same tick, so a just-expired force contributes nothing on
// its terminal tick.
func (t *Ticker) Tick() {
	live := t.Forces[:0]
	for _, f := range t.Forces {
		f = f.Aged()
		if !f.Expired() {
			live = append(live, f)
		}
	}
	t.Forces = live
}

// AddForce appends a force created by a market event.
func (t *Ticker) AddForce(f MarketForce) {
	t.Forces = append(t.Forces, f)
}

// OnBidPlaced records a bid of value v: a fast force pushing price up
// (buying pressure) and a slower reversion pulling it back down.
func (t *Ticker) OnBidPlaced(v int32) {
	t.AddForce(MarketForce{Pressure: float32(v) / 800, Decay: LinearDecay(5)})
	t.AddForce(MarketForce{Pressure: -float32(v) / 3000, Decay: LinearDecay(20)})
}

// OnAskPlaced records an ask of value v: a fast force pushing price
// down and a slower reversion pulling it back up.
func (t *Ticker) OnAskPlaced(v int32) {
	t.AddForce(MarketForce{Pressure: -float32(v) / 800, Decay: LinearDecay(5)})
	t.AddForce(MarketForce{Pressure: float32(v) / 3000, Decay: LinearDecay(20)})
}

// OnBidFilled records a bid fill at price p: a fast force with both
// pressure and excess volatility, and a slower reversion.
func (t *Ticker) OnBidFilled(p int32) {
	t.AddForce(MarketForce{Pressure: -float32(p) / 1000, Volatility: 0.08, Decay: LinearDecay(4)})
	t.AddForce(MarketForce{Pressure: float32(p) / 2640, Decay: LinearDecay(18)})
}

// OnAskFilled records an ask fill at price p: symmetric to OnBidFilled.
func (t *Ticker) OnAskFilled(p int32) {
	t.AddForce(MarketForce{Pressure: float32(p) / 1000, Volatility: 0.08, Decay: LinearDecay(4)})
	t.AddForce(MarketForce{Pressure: -float32(p) / 2640, Decay: LinearDecay(18)})
}

// PlayerTicker is one player's current price plus the ticker driving
// it. PriceChanged events are keyed by the owning player's id, not
// just the game, since every player sees their own series.
type PlayerTicker struct {
	Ticker       *Ticker
	CurrentPrice int32
}

// NewPlayerTicker creates a player ticker at the given starting price.
func NewPlayerTicker(baseVolatility, startingPrice int32) *PlayerTicker {
	return &PlayerTicker{
		Ticker:       NewTicker(baseVolatility),
		CurrentPrice: startingPrice,
	}
}

// Tick ages the underlying ticker's forces, draws the next delta, and
// clamps the resulting price at zero. This clamp is authoritative: no
// other part of the system may produce a negative price.
func (pt *PlayerTicker) Tick(rng *RNG) {
	pt.Ticker.Tick()
	next := pt.CurrentPrice + pt.Ticker.NextDelta(rng)
	if next < 0 {
		next = 0
	}
	pt.CurrentPrice = next
}
