/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package glicko resolves a single two-player match with the Glicko-2
// rating system:
//
//	https://www.glicko.net/glicko/glicko2.pdf
//
// Each match is treated as its own rating period. Resolve is pure: it
// reads two Ratings and returns two Outcomes without touching any state.
package glicko

import (
	"errors"
	"fmt"
	"math"
)

// Scale converts between the public rating scale and the Glicko-2 scale.
const Scale = 173.7178

const baseRating = 1500.0

// ErrNonFinite is returned when a computation produces NaN or ±Inf.
var ErrNonFinite = errors.New("glicko: non-finite result")

// Form selects how the expected score E is computed.
type Form int

const (
	// FormSource computes E = 1/(1+(-g)^(mu-muOpp)). This is the expression
	// the ratings have historically been computed with; it is only
	// well-defined for integral exponents.
	FormSource Form = iota
	// FormLogistic computes the textbook E = 1/(1+exp(-g*(mu-muOpp))).
	FormLogistic
)

func (f Form) String() string {
	if f == FormSource {
		return "source"
	} else if f == FormLogistic {
		return "logistic"
	} else {
		return "?"
	}
}

// ParseForm maps "source" or "logistic" to a Form.
func ParseForm(s string) (Form, error) {
	switch s {
	case "", "source":
		return FormSource, nil
	case "logistic":
		return FormLogistic, nil
	}
	return FormSource, fmt.Errorf("glicko: unknown expectation form %q", s)
}

// Rating is a player's strength in one game on the public scale.
type Rating struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// Params are the system constants for one resolution.
type Params struct {
	// Tau constrains volatility change; it is a per-game constant.
	Tau float64
	// Tolerance is the convergence bound for the volatility iteration.
	Tolerance float64
	// MaxIterations bounds both the bracketing search and the Illinois
	// iteration.
	MaxIterations int
	Form          Form
}

// DefaultParams returns tau 0.7, tolerance 1e-6 and the source E form.
func DefaultParams() Params {
	return Params{
		Tau:           0.7,
		Tolerance:     0.000001,
		MaxIterations: 100,
		Form:          FormSource,
	}
}

// Outcome is one side's result of a resolved match.
type Outcome struct {
	Victory       bool
	OldRating     float64
	NewRating     float64
	Delta         float64
	NewDeviation  float64
	NewVolatility float64
}

// Resolve computes both sides' outcomes. The first Outcome belongs to the
// initiator, the second to the challenged player.
func Resolve(initiator Rating, challenged Rating, initiatorWon bool,
	p Params) (Outcome, Outcome, error) {

	if err := p.validate(); err != nil {
		return Outcome{}, Outcome{}, err
	}

	initOut, err := update(initiator, challenged, initiatorWon, p)
	if err != nil {
		return Outcome{}, Outcome{}, fmt.Errorf("glicko.resolve: initiator: %w",
			err)
	}
	chalOut, err := update(challenged, initiator, !initiatorWon, p)
	if err != nil {
		return Outcome{}, Outcome{}, fmt.Errorf("glicko.resolve: challenged: %w",
			err)
	}

	return initOut, chalOut, nil
}

func (p Params) validate() error {
	if !(p.Tau > 0) {
		return fmt.Errorf("glicko: tau must be positive, got %v", p.Tau)
	}
	if !(p.Tolerance > 0) {
		return fmt.Errorf("glicko: tolerance must be positive, got %v",
			p.Tolerance)
	}
	if p.MaxIterations <= 0 {
		return fmt.Errorf("glicko: max iterations must be positive, got %v",
			p.MaxIterations)
	}
	return nil
}

// update runs steps 2-8 of the paper for one player against one opponent.
func update(me Rating, opp Rating, victory bool, p Params) (Outcome, error) {
	// Step 2
	mu := toMu(me.Rating)
	phi := toPhi(me.Deviation)
	oppMu := toMu(opp.Rating)
	oppPhi := toPhi(opp.Deviation)

	// Step 3
	g := calcG(oppPhi)
	e := calcE(mu, oppMu, g, p.Form)
	v := 1.0 / (pow2(g) * e * (1 - e))

	// Step 4
	score := 0.0
	if victory {
		score = 1.0
	}
	delta := v * g * (score - e)

	// Step 5
	sigma, err := sigmaPrime(me.Volatility, delta, phi, v, p)
	if err != nil {
		return Outcome{}, err
	}

	// Step 6
	phiStar := math.Sqrt(pow2(phi) + pow2(sigma))

	// Step 7
	newPhi := 1.0 / math.Sqrt(1.0/pow2(phiStar)+1.0/v)
	newMu := mu + pow2(newPhi)*g*(score-e)

	// Step 8
	out := Outcome{
		Victory:       victory,
		OldRating:     me.Rating,
		NewRating:     Scale*newMu + baseRating,
		NewDeviation:  Scale * newPhi,
		NewVolatility: sigma,
	}
	out.Delta = out.NewRating - out.OldRating

	if !finite(out.NewRating, out.NewDeviation, out.NewVolatility) {
		return Outcome{}, fmt.Errorf("%w: rating:%v deviation:%v volatility:%v",
			ErrNonFinite, out.NewRating, out.NewDeviation, out.NewVolatility)
	}

	return out, nil
}

func toMu(rating float64) float64 { return (rating - baseRating) / Scale }

func toPhi(deviation float64) float64 { return deviation / Scale }

func calcG(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*pow2(phi)/pow2(math.Pi))
}

func calcE(mu float64, oppMu float64, g float64, form Form) float64 {
	if form == FormLogistic {
		return 1.0 / (1.0 + math.Exp(-g*(mu-oppMu)))
	}
	return 1.0 / (1.0 + math.Pow(-g, mu-oppMu))
}

// f is the function whose root is ln(sigma'^2).
func f(x float64, delta float64, phi float64, v float64, a float64,
	tau float64) float64 {

	ex := math.Exp(x)
	lhs := ex * (pow2(delta) - pow2(phi) - v - ex) / (2 * pow2(pow2(phi)+v+ex))
	return lhs - (x-a)/pow2(tau)
}

// sigmaPrime finds the new volatility with the Illinois variant of
// regula falsi (step 5 of the paper).
func sigmaPrime(sigma float64, delta float64, phi float64, v float64,
	p Params) (float64, error) {

	// 5.1
	a := math.Log(pow2(sigma))
	fx := func(x float64) float64 { return f(x, delta, phi, v, a, p.Tau) }

	// 5.2
	A := a
	var B float64
	if pow2(delta) > pow2(phi)+v {
		B = math.Log(pow2(delta) - pow2(phi) - v)
	} else {
		k := 1.0
		for fx(a-k*p.Tau) < 0 {
			k++
			if int(k) > p.MaxIterations {
				return 0, fmt.Errorf("glicko: volatility bracket not found after %v steps",
					p.MaxIterations)
			}
		}
		B = a - k*p.Tau
	}

	// 5.3
	fA := fx(A)
	fB := fx(B)

	// 5.4
	for i := 0; math.Abs(B-A) > p.Tolerance; i++ {
		if i >= p.MaxIterations {
			return 0, fmt.Errorf("glicko: volatility did not converge after %v iterations",
				p.MaxIterations)
		}
		C := A + (A-B)*fA/(fB-fA)
		fC := fx(C)
		if fC*fB < 0 {
			A = B
			fA = fB
		} else {
			fA = fA / 2
		}
		B = C
		fB = fC
	}

	// 5.5
	return math.Exp(A / 2), nil
}

func pow2(x float64) float64 { return x * x }

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
