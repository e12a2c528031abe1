// Package fin wraps shopspring/decimal in an explicit, immutable arithmetic
// context: fixed division precision, round-half-up, and a shared near-zero
// tolerance. Every financial computation in this repo goes through a Context
// so callers with different precision needs cannot interfere.
package fin

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultPrecision is the number of decimal places kept by Divide.
	DefaultPrecision int32 = 28

	// defaultEpsilonExp is the exponent of the near-zero tolerance (1e-6).
	defaultEpsilonExp int32 = -6
)

// Context is an immutable decimal arithmetic configuration.
type Context struct {
	precision int32
	epsilon   decimal.Decimal
	logger    *zap.Logger
}

// NewContext returns a context with the default precision and a 1e-6
// zero tolerance. A nil logger is replaced with a no-op logger.
func NewContext(logger *zap.Logger) *Context {
	return NewContextWithPrecision(DefaultPrecision, logger)
}

// NewContextWithPrecision returns a context with a custom division precision.
func NewContextWithPrecision(precision int32, logger *zap.Logger) *Context {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		precision: precision,
		epsilon:   decimal.New(1, defaultEpsilonExp),
		logger:    logger,
	}
}

// ToDecimal parses strings and numeric values into a decimal. Nil, empty and
// unparseable input degrade silently to zero; callers validate upstream.
func (c *Context) ToDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case string:
		if x == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(x)
		if err != nil {
			c.logger.Debug("unparseable decimal input, treating as zero", zap.String("value", x))
			return decimal.Zero
		}
		return d
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float64:
		return decimal.NewFromFloat(x)
	default:
		c.logger.Debug("unsupported decimal input type, treating as zero",
			zap.String("type", fmt.Sprintf("%T", v)))
		return decimal.Zero
	}
}

// Add sums its operands. No operands yields zero.
func (c *Context) Add(values ...decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}

// Subtract takes the first operand and subtracts the rest.
func (c *Context) Subtract(first decimal.Decimal, rest ...decimal.Decimal) decimal.Decimal {
	result := first
	for _, v := range rest {
		result = result.Sub(v)
	}
	return result
}

// Multiply multiplies its operands. No operands yields one.
func (c *Context) Multiply(values ...decimal.Decimal) decimal.Decimal {
	product := decimal.New(1, 0)
	for _, v := range values {
		product = product.Mul(v)
	}
	return product
}

// Divide divides the first operand by each of the rest in turn, rounding half
// up at the context precision. A zero denominator yields zero rather than an
// error; report generation must never abort on a ratio.
func (c *Context) Divide(first decimal.Decimal, rest ...decimal.Decimal) decimal.Decimal {
	result := first
	for _, v := range rest {
		if v.IsZero() {
			c.logger.Debug("division by zero, degrading to zero",
				zap.String("numerator", result.String()))
			return decimal.Zero
		}
		result = result.DivRound(v, c.precision)
	}
	return result
}

// GreaterThan reports a > b.
func (c *Context) GreaterThan(a, b decimal.Decimal) bool {
	return a.GreaterThan(b)
}

// LessThan reports a < b.
func (c *Context) LessThan(a, b decimal.Decimal) bool {
	return a.LessThan(b)
}

// IsZero reports whether v is within the context epsilon of zero.
func (c *Context) IsZero(v decimal.Decimal) bool {
	return v.Abs().LessThanOrEqual(c.epsilon)
}

// IsPositive reports whether v exceeds the epsilon.
func (c *Context) IsPositive(v decimal.Decimal) bool {
	return v.GreaterThan(c.epsilon)
}

// IsNegative reports whether v is below the negated epsilon.
func (c *Context) IsNegative(v decimal.Decimal) bool {
	return v.LessThan(c.epsilon.Neg())
}

// ToString renders v as an exact base-10 string for the boundary.
func (c *Context) ToString(v decimal.Decimal) string {
	return v.String()
}

// ToFloat converts v to a native float. Boundary use only, and only for
// fields where floating precision is already assumed.
func (c *Context) ToFloat(v decimal.Decimal) float64 {
	f, _ := v.Float64()
	return f
}
