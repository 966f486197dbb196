package data

import (
	"encoding/json"
	"time"
)

// Value is a single cell value.
// It holds one of: string, float64, bool, time.Time, InvalidDate, or nil (absent).
type Value = interface{}

// Kind classifies a cell value
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindDate
	KindInvalidDate
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindDate:
		return "date"
	case KindInvalidDate:
		return "invalid_date"
	default:
		return "other"
	}
}

// InvalidDate is the sentinel produced when a value cannot be read as a date.
// Date arithmetic on it yields NaN and it formats as "Invalid Date".
type InvalidDate struct{}

func (InvalidDate) String() string { return "Invalid Date" }

// MarshalJSON writes the sentinel as null
func (InvalidDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(nil)
}

// KindOf returns the kind of a value
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindEmpty
	case string:
		return KindText
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case bool:
		return KindBool
	case time.Time:
		return KindDate
	case InvalidDate:
		return KindInvalidDate
	default:
		return KindOther
	}
}

// Normalize converts Go numeric kinds to float64 so every number a row
// carries has a single representation. Other values pass through.
func Normalize(v Value) Value {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case *InvalidDate:
		return InvalidDate{}
	}
	return v
}
