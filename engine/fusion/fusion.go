// Package fusion implements the fusion table: a static mapping from
// unordered skill pairs to the skill they combine into. Lookup is
// commutative — (a,b) and (b,a) resolve to the same rule.
package fusion

import (
	"errors"
	"fmt"

	"github.com/S-tiemersma/predators-odyssey/types"
)

// ErrDuplicatePair is returned when a second rule is registered for an
// unordered pair that already has one.
var ErrDuplicatePair = errors.New("duplicate fusion pair")

// pairKey is an order-normalized skill pair.
type pairKey struct {
	lo, hi string
}

func keyOf(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Table maps unordered skill pairs to result skill IDs.
type Table struct {
	rules map[pairKey]string
	order []pairKey
}

// NewTable creates an empty fusion table.
func NewTable() *Table {
	return &Table{rules: map[pairKey]string{}}
}

// Register adds a fusion rule. At most one rule may exist per unordered
// pair; a second registration fails with ErrDuplicatePair. Identifier
// existence is the loader's concern — the table stores IDs opaquely.
func (t *Table) Register(a, b, result string) error {
	if a == b {
		return fmt.Errorf("fusion %q+%q: a pair needs two different skills", a, b)
	}
	key := keyOf(a, b)
	if _, ok := t.rules[key]; ok {
		return fmt.Errorf("fusion %q+%q: %w", a, b, ErrDuplicatePair)
	}
	t.rules[key] = result
	t.order = append(t.order, key)
	return nil
}

// Lookup returns the result skill ID for the unordered pair (a,b).
// A missing rule is a normal outcome, reported via ok=false.
func (t *Table) Lookup(a, b string) (string, bool) {
	result, ok := t.rules[keyOf(a, b)]
	return result, ok
}

// Rules returns all fusion rules in registration order.
func (t *Table) Rules() []types.FusionRuleDef {
	out := make([]types.FusionRuleDef, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, types.FusionRuleDef{A: key.lo, B: key.hi, Result: t.rules[key]})
	}
	return out
}

// Len returns the number of registered rules.
func (t *Table) Len() int {
	return len(t.order)
}
