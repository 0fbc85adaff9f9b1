package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MeasurementUnit is the closed set of units an ingredient quantity can be
// expressed in. The zero value is UnitNone.
type MeasurementUnit int

const (
	UnitNone MeasurementUnit = iota
	UnitEach
	UnitTeaspoon
	UnitTablespoon
	UnitGrams
	UnitKilograms
	UnitMillilitres
	UnitLitres
	UnitCup
	UnitPinch
)

var (
	// ErrUnrecognizedUnit is returned when a string matches no canonical unit.
	ErrUnrecognizedUnit = errors.New("unrecognized measurement unit")
	// ErrUnimplementedUnit signals a MeasurementUnit value with no canonical
	// string. It is a programming defect, never an input error.
	ErrUnimplementedUnit = errors.New("unimplemented measurement unit variant")
)

var unitNames = map[MeasurementUnit]string{
	UnitNone:        "none",
	UnitEach:        "each",
	UnitTeaspoon:    "teaspoon",
	UnitTablespoon:  "tablespoon",
	UnitGrams:       "grams",
	UnitKilograms:   "kilograms",
	UnitMillilitres: "millilitres",
	UnitLitres:      "litres",
	UnitCup:         "cup",
	UnitPinch:       "pinch",
}

var unitsByName = func() map[string]MeasurementUnit {
	m := make(map[string]MeasurementUnit, len(unitNames))
	for u, s := range unitNames {
		m[s] = u
	}
	return m
}()

// AllMeasurementUnits returns every variant in declaration order.
func AllMeasurementUnits() []MeasurementUnit {
	return []MeasurementUnit{
		UnitNone, UnitEach, UnitTeaspoon, UnitTablespoon, UnitGrams,
		UnitKilograms, UnitMillilitres, UnitLitres, UnitCup, UnitPinch,
	}
}

// Render returns the canonical lowercase string for u.
func (u MeasurementUnit) Render() (string, error) {
	s, ok := unitNames[u]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnimplementedUnit, int(u))
	}
	return s, nil
}

// String implements fmt.Stringer. It panics for a variant without a
// canonical string.
func (u MeasurementUnit) String() string {
	s, err := u.Render()
	if err != nil {
		panic(err)
	}
	return s
}

// ParseMeasurementUnit matches s against the canonical unit strings,
// ignoring ASCII case only. Surrounding whitespace is not trimmed.
func ParseMeasurementUnit(s string) (MeasurementUnit, error) {
	if isASCII(s) {
		if u, ok := unitsByName[strings.ToLower(s)]; ok {
			return u, nil
		}
	}
	return UnitNone, fmt.Errorf("%w: %q", ErrUnrecognizedUnit, s)
}

// isASCII rejects look-alikes such as U+017F or U+212A that Unicode folding
// would map onto a unit name.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Value stores the unit as its canonical string.
func (u MeasurementUnit) Value() (driver.Value, error) {
	return u.Render()
}

// Scan reads a canonical unit string back from the database.
func (u *MeasurementUnit) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan measurement unit: unsupported type %T", src)
	}
	parsed, err := ParseMeasurementUnit(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// MarshalJSON renders the canonical string.
func (u MeasurementUnit) MarshalJSON() ([]byte, error) {
	s, err := u.Render()
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// UnmarshalJSON parses any casing of a canonical string.
func (u *MeasurementUnit) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMeasurementUnit(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
