package game

// Money and Price are both signed 32-bit integers. They are kept as
// distinct aliases rather than a shared name purely for readability at
// call sites; the underlying representation and arithmetic are
// identical, matching the spec's choice of a flat i32 for both.
type (
	Money = int32
	Price = int32
)
