/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"fmt"

	"github.com/mikeb26/fitebot/glicko"
)

// Config holds the engine's tunables. The env tags let internal.LoadConfig
// populate it from the process environment.
type Config struct {
	GenreCap          int     `env:"FITE_GENRE_CAP" envDefault:"3"`
	RecentMatchWindow int     `env:"FITE_RECENT_MATCHES" envDefault:"10"`
	DefaultTau        float64 `env:"FITE_DEFAULT_TAU" envDefault:"0.7"`
	DefaultRating     float64 `env:"FITE_DEFAULT_RATING" envDefault:"1500"`
	DefaultDeviation  float64 `env:"FITE_DEFAULT_DEVIATION" envDefault:"350"`
	DefaultVolatility float64 `env:"FITE_DEFAULT_VOLATILITY" envDefault:"0.06"`

	ConvergenceTolerance float64 `env:"FITE_CONVERGENCE_TOLERANCE" envDefault:"0.000001"`
	MaxIterations        int     `env:"FITE_MAX_ITERATIONS" envDefault:"100"`
	// ExpectationForm is "source" or "logistic"; see glicko.Form.
	ExpectationForm string `env:"FITE_EXPECTATION_FORM" envDefault:"source"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		GenreCap:             3,
		RecentMatchWindow:    10,
		DefaultTau:           0.7,
		DefaultRating:        1500,
		DefaultDeviation:     350,
		DefaultVolatility:    0.06,
		ConvergenceTolerance: 0.000001,
		MaxIterations:        100,
		ExpectationForm:      glicko.FormSource.String(),
	}
}

func (c Config) params() (glicko.Params, error) {
	form, err := glicko.ParseForm(c.ExpectationForm)
	if err != nil {
		return glicko.Params{}, err
	}
	return glicko.Params{
		Tau:           c.DefaultTau,
		Tolerance:     c.ConvergenceTolerance,
		MaxIterations: c.MaxIterations,
		Form:          form,
	}, nil
}

func (c Config) validate() error {
	if c.GenreCap <= 0 {
		return fmt.Errorf("genre cap must be positive, got %v", c.GenreCap)
	}
	if c.RecentMatchWindow <= 0 {
		return fmt.Errorf("recent match window must be positive, got %v",
			c.RecentMatchWindow)
	}
	if !(c.DefaultDeviation > 0) || !(c.DefaultVolatility > 0) {
		return fmt.Errorf("default deviation and volatility must be positive")
	}
	return nil
}
