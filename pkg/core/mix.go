package core

import "golang.org/x/exp/constraints"

// Mix linearly blends a towards b by t: b*t + a*(1-t)
func Mix[F constraints.Float](a, b, t F) F {
	return b*t + a*(1-t)
}
