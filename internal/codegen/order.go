package codegen

// Order is the precedence of a rendered expression. Lower binds tighter.
// Values are tenths: two orders with the same tens digit share a class
// and class comparisons decide parenthesisation.
type Order int

const (
	OrderAtomic         Order = 0
	OrderUnaryNegation  Order = 43
	OrderLogicalNot     Order = 44
	OrderMultiplication Order = 51
	OrderDivision       Order = 52
	OrderModulus        Order = 53
	OrderSubtraction    Order = 61
	OrderAddition       Order = 62
	OrderBitwiseShift   Order = 70
	OrderRelational     Order = 80
	OrderEquality       Order = 90
	OrderBitwiseAnd     Order = 100
	OrderBitwiseXor     Order = 110
	OrderBitwiseOr      Order = 120
	OrderLogicalAnd     Order = 130
	OrderLogicalOr      Order = 140
	OrderConditional    Order = 150
	OrderAssignment     Order = 160
	OrderComma          Order = 180
	OrderNone           Order = 990
)

func (o Order) class() int {
	return int(o) / 10
}

// orderOverrides lists (outer, inner) pairs that chain without
// parentheses even though inner does not bind tighter than outer.
var orderOverrides = [...][2]Order{
	{OrderLogicalNot, OrderLogicalNot},         // !!a
	{OrderMultiplication, OrderMultiplication}, // a * b * c
	{OrderAddition, OrderAddition},             // a + b + c
	{OrderLogicalAnd, OrderLogicalAnd},         // a && b && c
	{OrderLogicalOr, OrderLogicalOr},           // a || b || c
}

// needsParens reports whether an inner expression must be wrapped when
// embedded in an outer context.
func needsParens(outer, inner Order) bool {
	oc, ic := outer.class(), inner.class()
	if oc > ic {
		return false
	}
	if oc == ic && (oc == OrderAtomic.class() || oc == OrderNone.class()) {
		return false
	}
	for _, pair := range orderOverrides {
		if pair[0] == outer && pair[1] == inner {
			return false
		}
	}
	return true
}
