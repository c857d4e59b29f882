package market

import "math"

// Decay is the tagged strength schedule attached to a MarketForce. Its
// shape follows the phase/intensity decay bookkeeping in the teacher's
// stress controller (an explicit numeric state advanced one discrete
// step at a time, clamped into [0, 1]) generalized to the four
// variants the price-dynamics model calls for.
type Decay struct {
	kind decayKind

	// Duration / Linear
	remaining uint32
	initial   uint32 // Linear only; strength = remaining/initial

	// Exponential
	halfLife uint32
	age      uint32
}

type decayKind int

const (
	decayInstant decayKind = iota
	decayDuration
	decayLinear
	decayExponential
)

// expPruneThreshold is the strength below which an Exponential decay
// is considered expired, per the market-force lifecycle rule.
const expPruneThreshold = 0.01

// Instant decays to zero strength the moment it is aged once.
func Instant() Decay { return Decay{kind: decayInstant} }

// DurationDecay has boolean strength: 1 while remaining > 0, else 0.
func DurationDecay(remaining uint32) Decay {
	return Decay{kind: decayDuration, remaining: remaining}
}

// LinearDecay has strength = remaining/initial, ramping to 0.
func LinearDecay(remaining uint32) Decay {
	return Decay{kind: decayLinear, remaining: remaining, initial: remaining}
}

// ExponentialDecay has strength = 0.5^(age/halfLife), pruned once it
// drops below expPruneThreshold.
func ExponentialDecay(halfLife uint32) Decay {
	return Decay{kind: decayExponential, halfLife: halfLife}
}

// Strength returns the current decay multiplier in [0, 1].
func (d Decay) Strength() float64 {
	switch d.kind {
	case decayInstant:
		return 1
	case decayDuration:
		if d.remaining > 0 {
			return 1
		}
		return 0
	case decayLinear:
		if d.initial == 0 {
			return 0
		}
		return float64(d.remaining) / float64(d.initial)
	case decayExponential:
		s := halfLifeStrength(d.age, d.halfLife)
		if s < expPruneThreshold {
			return 0
		}
		return s
	default:
		return 0
	}
}

// Age advances the decay by one tick and returns the decay with its
// internal clock advanced. Instant decays age straight to expiry.
func (d Decay) Age() Decay {
	switch d.kind {
	case decayInstant:
		d.kind = decayDuration
		d.remaining = 0
	case decayDuration, decayLinear:
		if d.remaining > 0 {
			d.remaining--
		}
	case decayExponential:
		d.age++
	}
	return d
}

// Expired reports whether the decay strength has reached zero and the
// force carrying it should be dropped, per the universal invariant
// that no expired force remains present in a ticker.
func (d Decay) Expired() bool {
	return d.Strength() <= 0
}

// DecaySnapshot is the serializable projection of a Decay, for
// repositories that must persist GameState across restarts.
type DecaySnapshot struct {
	Kind      string
	Remaining uint32
	Initial   uint32
	HalfLife  uint32
	Age       uint32
}

var decayKindNames = map[decayKind]string{
	decayInstant:     "instant",
	decayDuration:    "duration",
	decayLinear:      "linear",
	decayExponential: "exponential",
}

// Snapshot captures d's internal state for serialization.
func (d Decay) Snapshot() DecaySnapshot {
	return DecaySnapshot{
		Kind:      decayKindNames[d.kind],
		Remaining: d.remaining,
		Initial:   d.initial,
		HalfLife:  d.halfLife,
		Age:       d.age,
	}
}

// DecayFromSnapshot reconstructs a Decay from a DecaySnapshot produced
// by Snapshot.
func DecayFromSnapshot(s DecaySnapshot) Decay {
	d := Decay{remaining: s.Remaining, initial: s.Initial, halfLife: s.HalfLife, age: s.Age}
	for k, name := range decayKindNames {
		if name == s.Kind {
			d.kind = k
			break
		}
	}
	return d
}

// halfLifeStrength computes 0.5^(age/halfLife), the exponential decay
// curve from the price-dynamics spec.
func halfLifeStrength(age, halfLife uint32) float64 {
	if halfLife == 0 {
		if age == 0 {
			return 1
		}
		return 0
	}
	return math.Pow(0.5, float64(age)/float64(halfLife))
}
