package codegen

import (
	"context"
	"strconv"
	"testing"

	"quanta/internal/blocks"
)

// variableTree returns a tree holding one variable block named x.
func variableTree() (*blocks.Tree, blocks.ID) {
	b := blocks.NewBuilder(0)
	b.DeclareVariable(blocks.Variable{ID: "vx", Name: "x"})
	id := b.Add(blocks.Variable{VarID: "vx"})
	return b.Build(), id
}

func TestAdjustedDynamic(t *testing.T) {
	tree, x := variableTree()
	tests := []struct {
		name     string
		adj      Adjust
		oneBased bool
		want     string
	}{
		{"subtraction in equal context is grouped", Adjust{Delta: -1, Order: OrderSubtraction}, false, "(x - 1)"},
		{"subtraction in tighter class is bare", Adjust{Delta: -1, Order: OrderMultiplication}, false, "x - 1"},
		{"addition defaults to grouped", Adjust{Delta: 2}, false, "(x + 2)"},
		{"addition in tighter class is bare", Adjust{Delta: 2, Order: OrderUnaryNegation}, false, "x + 2"},
		{"negation without delta", Adjust{Negate: true, Order: OrderMultiplication}, false, "(-x)"},
		{"negation wraps adjusted text", Adjust{Delta: 1, Negate: true, Order: OrderMultiplication}, false, "(-(x + 1))"},
		{"no adjustment is untouched", Adjust{}, false, "x"},
		{"one based shifts zero delta", Adjust{}, true, "(x - 1)"},
		{"one based cancels plus one", Adjust{Delta: 1}, true, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPass(context.Background(), tree, Options{OneBasedIndex: tt.oneBased})
			got, _, err := p.adjusted(x, tt.adj)
			if err != nil {
				t.Fatalf("adjusted: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdjustedLiteralRoundTrip(t *testing.T) {
	orders := []Order{OrderAtomic, OrderUnaryNegation, OrderMultiplication, OrderSubtraction, OrderAddition, OrderNone}
	for _, original := range []int{0, 5, -3, 41} {
		for _, d := range []int{-7, -1, 0, 1, 12} {
			for _, o := range orders {
				b := blocks.NewBuilder(0)
				lit := b.Add(blocks.Number{Value: strconv.Itoa(original)})
				p := newPass(context.Background(), b.Build(), DefaultOptions())
				got, order, err := p.adjusted(lit, Adjust{Delta: d, Order: o})
				if err != nil {
					t.Fatal(err)
				}
				if want := strconv.Itoa(original + d); got != want || order != OrderAtomic {
					t.Errorf("%d%+d at order %d: got %q (order %d), want %q", original, d, o, got, order, want)
				}
			}
		}
	}
}

func TestAdjustedLiteralNegateAndBase(t *testing.T) {
	tests := []struct {
		value    string
		adj      Adjust
		oneBased bool
		want     string
	}{
		{"5", Adjust{Delta: 2, Negate: true}, false, "-7"},
		{"0", Adjust{Negate: true}, false, "0"},
		{"5", Adjust{}, true, "4"},
		{"2.5", Adjust{Delta: 1}, false, "3.5"},
		{" 8 ", Adjust{Delta: -8}, false, "0"},
	}
	for _, tt := range tests {
		b := blocks.NewBuilder(0)
		lit := b.Add(blocks.Number{Value: tt.value})
		p := newPass(context.Background(), b.Build(), Options{OneBasedIndex: tt.oneBased})
		got, _, err := p.adjusted(lit, tt.adj)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("adjusted(%q, %+v, oneBased=%v) = %q, want %q", tt.value, tt.adj, tt.oneBased, got, tt.want)
		}
	}
}

func TestAdjustedEmptySlot(t *testing.T) {
	for _, oneBased := range []bool{false, true} {
		for _, adj := range []Adjust{{}, {Delta: 3}, {Delta: -2, Negate: true}, {Negate: true, Order: OrderSubtraction}} {
			p := newPass(context.Background(), blocks.NewBuilder(0).Build(), Options{OneBasedIndex: oneBased})
			got, _, err := p.adjusted(blocks.NoID, adj)
			if err != nil {
				t.Fatal(err)
			}
			want := "0"
			if oneBased {
				want = "1"
			}
			if got != want {
				t.Errorf("oneBased=%v adj=%+v: got %q, want %q", oneBased, adj, got, want)
			}
		}
	}
}

func TestNeedsParens(t *testing.T) {
	tests := []struct {
		outer, inner Order
		want         bool
	}{
		{OrderAtomic, OrderAtomic, false},
		{OrderNone, OrderNone, false},
		{OrderNone, OrderAddition, false},
		{OrderAtomic, OrderAddition, true},
		{OrderAddition, OrderSubtraction, true},
		{OrderSubtraction, OrderAddition, true},
		{OrderAddition, OrderMultiplication, false},
		{OrderMultiplication, OrderDivision, true},
		{OrderLogicalOr, OrderLogicalAnd, false},
	}
	for _, tt := range tests {
		if got := needsParens(tt.outer, tt.inner); got != tt.want {
			t.Errorf("needsParens(%d, %d) = %v, want %v", tt.outer, tt.inner, got, tt.want)
		}
	}
	for _, pair := range orderOverrides {
		if needsParens(pair[0], pair[1]) {
			t.Errorf("override (%d, %d) was parenthesised", pair[0], pair[1])
		}
	}
}
