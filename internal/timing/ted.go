// Package timing implements the closed-loop interpolating symbol-timing
// recovery used by both protocol receivers: a single engine parameterised
// by which timing-error detector (TED) it runs.
package timing

// TED identifies one of the closed set of supported timing-error
// detectors. The set is closed by design (spec Design Notes): no plugin
// system, just a switch over a short pure function per detector.
type TED int

const (
	// TEDUnset is the zero value, meaning "caller didn't choose a TED" --
	// receiver configs use it to fall back to a protocol-specific default
	// rather than silently running MuellerAndMuller.
	TEDUnset TED = iota
	MuellerAndMuller
	ModMuellerAndMuller
	ZeroCrossing
	Gardner
	EarlyLate
	DAndreaMengaliGenMSK
	MengaliDAndreaGMSK
	SignalTimesSlopeML
	SignumTimesSlopeML
)

// errorFunc computes a timing error for one symbol from four soft
// interpolated values: prev (the symbol before curr), mid (half a symbol
// after curr -- the "mid-point" sample used by Gardner/early-late), curr
// (on-symbol) and next (the symbol after curr). Detectors that don't need
// the midpoint sample ignore it.
type errorFunc func(prevSym, midSym, currSym, nextSym float64) float64

func errorFuncFor(t TED) errorFunc {
	switch t {
	case MuellerAndMuller:
		return func(prev, _, curr, _ float64) float64 {
			return sign(curr)*prev - sign(prev)*curr
		}
	case ModMuellerAndMuller:
		return func(prev, _, curr, _ float64) float64 {
			return sign(prev)*prev - sign(curr)*curr
		}
	case ZeroCrossing:
		return func(prev, mid, curr, _ float64) float64 {
			return mid * (sign(prev) - sign(curr))
		}
	case Gardner:
		return func(prev, mid, curr, _ float64) float64 {
			return mid * (prev - curr)
		}
	case EarlyLate:
		return func(prev, _, curr, next float64) float64 {
			return curr * (next - prev)
		}
	case DAndreaMengaliGenMSK:
		return func(prev, mid, curr, next float64) float64 {
			return mid * (curr - prev) * (next - curr)
		}
	case MengaliDAndreaGMSK:
		return func(prev, mid, curr, _ float64) float64 {
			return sign(mid) * (curr - prev)
		}
	case SignalTimesSlopeML:
		return func(prev, _, curr, next float64) float64 {
			return curr * (next - prev) / 2
		}
	case SignumTimesSlopeML:
		return func(prev, _, curr, next float64) float64 {
			return sign(curr) * (next - prev) / 2
		}
	default:
		return func(prev, _, curr, _ float64) float64 {
			return sign(curr)*prev - sign(prev)*curr
		}
	}
}

func sign(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return -1
}
