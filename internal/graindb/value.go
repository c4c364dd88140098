package graindb

import (
	"fmt"

	"github.com/spf13/cast"
)

type ValueType int

const (
	TypeInt ValueType = iota + 1
	TypeFloat
	TypeChar
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeChar:
		return "char"
	default:
		return "unknown"
	}
}

// Value is a typed scalar. CHAR values carry the declared width of the
// column they were typed against.
type Value struct {
	Type  ValueType
	Int   int64
	Float float64
	Str   string
	Len   uint32
}

func NewIntValue(value int64) Value {
	return Value{Type: TypeInt, Int: value}
}

func NewFloatValue(value float64) Value {
	return Value{Type: TypeFloat, Float: value}
}

func NewCharValue(value string, length uint32) Value {
	return Value{Type: TypeChar, Str: value, Len: length}
}

func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return fmt.Sprintf("%d", v.Int)
	case TypeFloat:
		return fmt.Sprintf("%g", v.Float)
	case TypeChar:
		return fmt.Sprintf("'%s'", v.Str)
	default:
		return "?"
	}
}

// CoerceValue types a raw literal from the parser against a column. Integer
// literals widen to float when the column is a float column; anything that
// does not fit the column's type or declared width is a binding error.
func CoerceValue(raw any, aColumn ColMeta) (Value, error) {
	switch aColumn.Type {
	case TypeInt:
		if _, ok := raw.(float64); ok {
			return Value{}, ErrInvalidLiteral.New(raw, aColumn.Type)
		}
		theValue, err := cast.ToInt64E(raw)
		if err != nil {
			return Value{}, ErrInvalidLiteral.New(raw, aColumn.Type)
		}
		return NewIntValue(theValue), nil
	case TypeFloat:
		theValue, err := cast.ToFloat64E(raw)
		if err != nil {
			return Value{}, ErrInvalidLiteral.New(raw, aColumn.Type)
		}
		return NewFloatValue(theValue), nil
	case TypeChar:
		theValue, err := cast.ToStringE(raw)
		if err != nil {
			return Value{}, ErrInvalidLiteral.New(raw, aColumn.Type)
		}
		if _, ok := raw.(string); !ok {
			return Value{}, ErrInvalidLiteral.New(raw, aColumn.Type)
		}
		if uint32(len(theValue)) > aColumn.Len {
			return Value{}, ErrStringTooLong.New(theValue, aColumn.Len)
		}
		return NewCharValue(theValue, aColumn.Len), nil
	default:
		return Value{}, ErrInvalidLiteral.New(raw, aColumn.Type)
	}
}
