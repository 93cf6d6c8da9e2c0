package codegen

import (
	"regexp"
	"strconv"
	"strings"

	"quanta/internal/blocks"
)

// Adjust describes an index adjustment applied to an operand.
type Adjust struct {
	Delta  int
	Negate bool
	// Order is the tightest operator acting on the result. The zero value
	// is read as OrderNone.
	Order Order
}

var numberLiteral = regexp.MustCompile(`^\s*-?\d+(\.\d+)?\s*$`)

func isNumber(s string) bool {
	return numberLiteral.MatchString(s)
}

func (p *pass) defaultLiteral() string {
	if p.opts.OneBasedIndex {
		return "1"
	}
	return "0"
}

// valueToCode renders the value block in slot child for an outer context
// of order outer, adding parentheses when the precedence rules require
// them. An empty or disabled slot yields "".
func (p *pass) valueToCode(child blocks.ID, outer Order) (string, Order, error) {
	blk := p.tree.Get(child)
	if blk == nil || blk.Disabled {
		return "", OrderAtomic, nil
	}
	text, inner, err := p.valueCode(child, blk)
	if err != nil || text == "" {
		return text, inner, err
	}
	if needsParens(outer, inner) {
		return "(" + text + ")", OrderAtomic, nil
	}
	return text, inner, nil
}

// operand renders an instruction argument: atomic context, default
// literal for an empty slot.
func (p *pass) operand(child blocks.ID) (string, error) {
	text, _, err := p.valueToCode(child, OrderAtomic)
	if err != nil {
		return "", err
	}
	if text == "" {
		return p.defaultLiteral(), nil
	}
	return text, nil
}

// adjusted renders an index operand shifted by adj.Delta and optionally
// negated. Numeric literals are folded; anything else gets the arithmetic
// written out and is parenthesised when adj.Order binds at least as
// tightly as the operator that was added. An empty slot yields the default
// literal unchanged.
func (p *pass) adjusted(child blocks.ID, adj Adjust) (string, Order, error) {
	order := adj.Order
	if order == OrderAtomic {
		order = OrderNone
	}
	delta := adj.Delta
	if p.opts.OneBasedIndex {
		delta--
	}

	required := order
	switch {
	case delta > 0:
		required = OrderAddition
	case delta < 0:
		required = OrderSubtraction
	case adj.Negate:
		required = OrderUnaryNegation
	}

	at, atOrder, err := p.valueToCode(child, required)
	if err != nil {
		return "", OrderAtomic, err
	}
	if at == "" {
		return p.defaultLiteral(), OrderAtomic, nil
	}

	if isNumber(at) {
		v, err := strconv.ParseFloat(strings.TrimSpace(at), 64)
		if err != nil {
			return at, OrderAtomic, nil
		}
		v += float64(delta)
		if adj.Negate {
			v = -v
		}
		if v == 0 {
			v = 0 // no "-0"
		}
		return strconv.FormatFloat(v, 'f', -1, 64), OrderAtomic, nil
	}

	var inner Order
	switch {
	case delta > 0:
		at = at + " + " + strconv.Itoa(delta)
		inner = OrderAddition
	case delta < 0:
		at = at + " - " + strconv.Itoa(-delta)
		inner = OrderSubtraction
	}
	if adj.Negate {
		if delta != 0 {
			at = "-(" + at + ")"
		} else {
			at = "-" + at
		}
		inner = OrderUnaryNegation
	}
	if inner == OrderAtomic {
		return at, atOrder, nil
	}
	if order.class() >= inner.class() {
		return "(" + at + ")", OrderAtomic, nil
	}
	return at, inner, nil
}
