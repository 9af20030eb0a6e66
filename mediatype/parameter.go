package mediatype

import (
	"errors"
	"strconv"
	"strings"
)

// ParameterKind discriminates the two variants of a ParameterValue.
type ParameterKind int

// Parameter value kinds
const (
	KindString ParameterKind = iota
	KindNumber
)

func (k ParameterKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	}
	return "ParameterKind(" + strconv.Itoa(int(k)) + ")"
}

// ParameterValue is the value of a media type parameter. It is either
// a number (float64) or a string. Use the accessors to read the payload:
// each of them reports whether the value holds the requested variant.
//
// The zero value is an empty string.
type ParameterValue struct {
	text   string
	number float64
	kind   ParameterKind
}

// NumberValue returns a numeric ParameterValue.
func NumberValue(n float64) ParameterValue {
	return ParameterValue{kind: KindNumber, number: n}
}

// StringValue returns a string ParameterValue.
func StringValue(s string) ParameterValue {
	return ParameterValue{kind: KindString, text: s}
}

// ParseParameterValue classifies a raw parameter value. If the trimmed
// text can be parsed as a float64, a numeric value is returned. Numbers too
// large for a float64 become infinite. Otherwise the raw text is kept
// verbatim as a string value.
//
//	ParseParameterValue("0.8")   // number 0.8
//	ParseParameterValue("1e400") // number +Inf
//	ParseParameterValue("utf-8") // string "utf-8"
func ParseParameterValue(raw string) ParameterValue {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return NumberValue(n)
	}
	return StringValue(raw)
}

// Kind returns the variant held by this value.
func (v ParameterValue) Kind() ParameterKind {
	return v.kind
}

// IsNumber returns true if the value holds a number.
func (v ParameterValue) IsNumber() bool {
	return v.kind == KindNumber
}

// IsString returns true if the value holds a string.
func (v ParameterValue) IsString() bool {
	return v.kind == KindString
}

// Number returns the numeric payload. The second return value is false
// if the value is a string.
func (v ParameterValue) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.number, true
}

// Text returns the string payload. The second return value is false
// if the value is a number.
func (v ParameterValue) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Equal returns true if both values hold the same variant and their payloads
// are equal. Numbers are compared with IEEE 754 equality, so NaN is never equal
// to anything. A number is never equal to a string, even if their textual
// representations are identical.
func (v ParameterValue) Equal(other ParameterValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.number == other.number
	case KindString:
		return v.text == other.text
	}
	return false
}

func (v ParameterValue) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	}
	return v.text
}

// Parameter a single "key=value" media type parameter.
type Parameter struct {
	Key   string
	Value ParameterValue
}

// Equal returns true if both the keys and the values are equal.
func (p Parameter) Equal(other Parameter) bool {
	return p.Key == other.Key && p.Value.Equal(other.Value)
}

func (p Parameter) String() string {
	return p.Key + "=" + p.Value.String()
}
