package market

// MarketForce is a transient contributor to a ticker's price delta:
// a pressure (directional drift) and excess volatility, both
// attenuated by a Decay schedule. Forces are created by market-event
// hooks and aged one step per Tick.
type MarketForce struct {
	Pressure   float32
	Volatility float32
	Decay      Decay
}

// EffectivePressure is Pressure scaled by the current decay strength.
func (f MarketForce) EffectivePressure() float32 {
	return f.Pressure * float32(f.Decay.Strength())
}

// EffectiveVolatility is Volatility scaled by the current decay strength.
func (f MarketForce) EffectiveVolatility() float32 {
	return f.Volatility * float32(f.Decay.Strength())
}

// Aged returns the force with its decay advanced by one step.
func (f MarketForce) Aged() MarketForce {
	f.Decay = f.Decay.Age()
	return f
}

// Expired reports whether this force's decay has reached zero strength
// and it should be dropped from the ticker's force list.
func (f MarketForce) Expired() bool {
	return f.Decay.Expired()
}
