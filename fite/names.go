/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package fite

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical returns the case-folded identity used for players, games and
// genres. Callers may pass mixed case; every engine boundary folds.
func Canonical(s string) string {
	// a Caser is stateful, so one per call
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
