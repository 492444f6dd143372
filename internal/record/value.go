package record

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind discriminates the scalar types a cell value can hold.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
)

// Value is a tagged scalar: empty, string, or number. Numbers are held as
// decimals so monetary amounts survive repeated load/persist cycles intact.
type Value struct {
	kind Kind
	str  string
	num  decimal.Decimal
}

// Empty returns the zero value.
func Empty() Value {
	return Value{}
}

// String wraps a string value. An empty string is the empty value.
func String(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindString, str: s}
}

// Number wraps a numeric value.
func Number(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

// Int wraps an integer value.
func Int(n int) Value {
	return Value{kind: KindNumber, num: decimal.NewFromInt(int64(n))}
}

// Parse interprets a raw cell string: integer, then decimal, then string.
// Strings with a leading zero (ZIP codes, SKUs) stay strings.
func Parse(s string) Value {
	if s == "" {
		return Value{}
	}
	if len(s) > 1 && s[0] == '0' && s != "0" && s[1] != '.' {
		return Value{kind: KindString, str: s}
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		d, _ := decimal.NewFromString(s)
		return Value{kind: KindNumber, num: d}
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return Value{kind: KindNumber, num: d}
	}
	return Value{kind: KindString, str: s}
}

// Kind returns the value's type tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether the value is the empty value.
func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty
}

// Decimal returns the numeric value, or zero for non-numbers.
func (v Value) Decimal() decimal.Decimal {
	return v.num
}

// String renders the value for display and for distinct-value comparison.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return v.num.String()
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Cell returns the value in the shape the spreadsheet backend expects.
func (v Value) Cell() interface{} {
	switch v.kind {
	case KindNumber:
		if v.num.IsInteger() {
			if bi := v.num.BigInt(); bi.IsInt64() {
				return bi.Int64()
			}
			// Too big for the backend's integer type; the string form
			// keeps every digit.
			return v.num.String()
		}
		return v.num.InexactFloat64()
	case KindString:
		return v.str
	default:
		return nil
	}
}

// Equal reports value equality; numbers compare numerically.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindNumber {
		return v.num.Equal(o.num)
	}
	return v.str == o.str
}
