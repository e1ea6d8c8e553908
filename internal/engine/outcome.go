package engine

import (
	"github.com/shopspring/decimal"
)

const (
	MinWinProbability = 0.05
	MaxWinProbability = 0.95
	ClutchShift       = 0.20
)

var clutchWindow = decimal.RequireFromString("0.05")

// Clutch reports whether the strength gap falls inside the clutch window.
func Clutch(home, away decimal.Decimal) bool {
	total := home.Add(away)
	return home.Sub(away).Abs().LessThan(total.Mul(clutchWindow))
}

// HomeWinProbability returns the clamped probability that home wins. A zero
// total yields the upper bound and decided=true, meaning no draw is taken.
func HomeWinProbability(home, away RosterPerformance) (p float64, decided bool) {
	total := home.Total.Add(away.Total)
	if total.Sign() <= 0 {
		return MaxWinProbability, true
	}

	p = home.Total.Div(total).InexactFloat64()
	if Clutch(home.Total, away.Total) && home.HasClutch != away.HasClutch {
		if home.HasClutch {
			p += ClutchShift
		} else {
			p -= ClutchShift
		}
	}
	return clamp(p, MinWinProbability, MaxWinProbability), false
}

// DetermineWinner takes at most one draw from rng. Home wins iff draw < p.
func DetermineWinner(home, away RosterPerformance, rng Source) (homeWins bool, p float64) {
	p, decided := HomeWinProbability(home, away)
	if decided {
		return true, p
	}
	return rng.Float64() < p, p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
