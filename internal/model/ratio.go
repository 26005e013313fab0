package model

// RatioType classifies a pool ratio by its display-unit shape.
type RatioType uint8

const (
	// RatioSimple means both sides are whole display units and one side
	// equals exactly 1. Examples: 1:160, 1000:1.
	RatioSimple RatioType = iota
	// RatioDecimal means one side equals exactly 1 but the other side has
	// a fractional display value. Example: 1:160.55.
	RatioDecimal
	// RatioEngineering means neither side equals 1, or both sides carry
	// fractional display values. Example: 2.5:3.7.
	RatioEngineering
)

func (t RatioType) String() string {
	switch t {
	case RatioSimple:
		return "simple"
	case RatioDecimal:
		return "decimal"
	case RatioEngineering:
		return "engineering"
	default:
		return "unknown"
	}
}

// DecimalFactor returns 10^decimals, the basis points per display unit.
func DecimalFactor(decimals uint8) uint64 {
	factor := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		factor *= 10
	}
	return factor
}

// ClassifyRatio determines the ratio type from basis-point values and the
// declared token decimals. It is always recomputed from stored state and
// never accepted as external input.
func ClassifyRatio(numerator, denominator uint64, decimalsA, decimalsB uint8) RatioType {
	if numerator == 0 || denominator == 0 {
		return RatioEngineering
	}
	factorA := DecimalFactor(decimalsA)
	factorB := DecimalFactor(decimalsB)

	aWhole := numerator%factorA == 0
	bWhole := denominator%factorB == 0

	var displayA, displayB uint64
	if aWhole {
		displayA = numerator / factorA
	}
	if bWhole {
		displayB = denominator / factorB
	}

	oneSided := (aWhole && displayA == 1) || (bWhole && displayB == 1)
	if !oneSided {
		return RatioEngineering
	}
	if aWhole && bWhole {
		return RatioSimple
	}
	return RatioDecimal
}

// OneToManyRatio reports whether both ratio sides reduce to whole display
// units with one side equal to exactly 1. This is the "clean pool" flag
// callers filter on; it is informational only.
func OneToManyRatio(numerator, denominator uint64, decimalsA, decimalsB uint8) bool {
	return ClassifyRatio(numerator, denominator, decimalsA, decimalsB) == RatioSimple
}
