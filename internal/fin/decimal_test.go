package fin

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestContext() *Context {
	return NewContext(zap.NewNop())
}

func TestToDecimal_Inputs(t *testing.T) {
	c := newTestContext()

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"string", "123.456", "123.456"},
		{"negative string", "-0.001", "-0.001"},
		{"empty string", "", "0"},
		{"garbage string", "not-a-number", "0"},
		{"nil", nil, "0"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float64", 2.5, "2.5"},
		{"decimal", decimal.RequireFromString("9.99"), "9.99"},
		{"nil decimal pointer", (*decimal.Decimal)(nil), "0"},
		{"unsupported type", struct{}{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ToDecimal(tt.in)
			if got.String() != tt.want {
				t.Errorf("ToDecimal(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestArithmetic_Variadic(t *testing.T) {
	c := newTestContext()
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	if got := c.Add(d("0.1"), d("0.2"), d("0.3")); got.String() != "0.6" {
		t.Errorf("Add = %s, want 0.6", got)
	}
	if got := c.Add(); !got.IsZero() {
		t.Errorf("Add() = %s, want 0", got)
	}
	if got := c.Subtract(d("10"), d("3"), d("2")); got.String() != "5" {
		t.Errorf("Subtract = %s, want 5", got)
	}
	if got := c.Multiply(d("1.5"), d("4")); got.String() != "6" {
		t.Errorf("Multiply = %s, want 6", got)
	}
	if got := c.Divide(d("1"), d("8")); got.String() != "0.125" {
		t.Errorf("Divide = %s, want 0.125", got)
	}
}

func TestDivide_ByZeroDegradesToZero(t *testing.T) {
	c := newTestContext()
	got := c.Divide(decimal.RequireFromString("100"), decimal.Zero)
	if !got.IsZero() {
		t.Errorf("Divide by zero = %s, want 0", got)
	}

	// Chained: zero anywhere in the denominator list degrades the whole result.
	got = c.Divide(decimal.RequireFromString("100"), decimal.RequireFromString("2"), decimal.Zero)
	if !got.IsZero() {
		t.Errorf("chained Divide by zero = %s, want 0", got)
	}
}

func TestEpsilonComparators(t *testing.T) {
	c := newTestContext()
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	tests := []struct {
		v          string
		isZero     bool
		isPositive bool
		isNegative bool
	}{
		{"0", true, false, false},
		{"0.000001", true, false, false},    // exactly epsilon: still zero
		{"-0.000001", true, false, false},
		{"0.0000011", false, true, false},
		{"-0.0000011", false, false, true},
		{"1", false, true, false},
		{"-1", false, false, true},
	}

	for _, tt := range tests {
		v := d(tt.v)
		if got := c.IsZero(v); got != tt.isZero {
			t.Errorf("IsZero(%s) = %v, want %v", tt.v, got, tt.isZero)
		}
		if got := c.IsPositive(v); got != tt.isPositive {
			t.Errorf("IsPositive(%s) = %v, want %v", tt.v, got, tt.isPositive)
		}
		if got := c.IsNegative(v); got != tt.isNegative {
			t.Errorf("IsNegative(%s) = %v, want %v", tt.v, got, tt.isNegative)
		}
	}
}

func TestBoundaryConversions(t *testing.T) {
	c := newTestContext()
	v := decimal.RequireFromString("1234.5678")

	if got := c.ToString(v); got != "1234.5678" {
		t.Errorf("ToString = %q", got)
	}
	if got := c.ToFloat(v); got != 1234.5678 {
		t.Errorf("ToFloat = %v", got)
	}
}

func TestDivide_PrecisionIsExact(t *testing.T) {
	// The classic float trap: 1/3*3 must round-trip to 1 at context precision.
	c := newTestContext()
	one := decimal.New(1, 0)
	three := decimal.New(3, 0)

	third := c.Divide(one, three)
	back := c.Multiply(third, three)
	if !c.IsZero(c.Subtract(one, back)) {
		t.Errorf("1/3*3 = %s, not within epsilon of 1", back)
	}
}
