package payload

import (
	"bytes"
	"math"
	"slices"
)

// Field names reported by Diff
const (
	FieldID       = "ID"
	FieldShortVal = "ShortVal"
	FieldFloatVal = "FloatVal"
	FieldByteArr  = "ByteArr"
	FieldLongArr  = "LongArr"
	FieldDblArr   = "DblArr"
	FieldText     = "Text"
)

// Equal reports whether a and b hold the same values.
// Floats are compared by bit pattern. A nil and an empty slice are equal.
func Equal(a, b *SampleObject) bool {
	return len(Diff(a, b)) == 0
}

// Diff returns the names of all fields that differ between a and b in
// declaration order. Two nil objects are equal; a nil and a non nil object
// differ in every field.
func Diff(a, b *SampleObject) []string {
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return []string{FieldID, FieldShortVal, FieldFloatVal, FieldByteArr, FieldLongArr, FieldDblArr, FieldText}
	}

	var diff []string
	if a.ID != b.ID {
		diff = append(diff, FieldID)
	}
	if a.ShortVal != b.ShortVal {
		diff = append(diff, FieldShortVal)
	}
	if math.Float32bits(a.FloatVal) != math.Float32bits(b.FloatVal) {
		diff = append(diff, FieldFloatVal)
	}
	if !bytes.Equal(a.ByteArr, b.ByteArr) {
		diff = append(diff, FieldByteArr)
	}
	if !slices.Equal(a.LongArr, b.LongArr) {
		diff = append(diff, FieldLongArr)
	}
	if !floatBitsEqual(a.DblArr, b.DblArr) {
		diff = append(diff, FieldDblArr)
	}
	if a.Text != b.Text {
		diff = append(diff, FieldText)
	}
	return diff
}

func floatBitsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}
