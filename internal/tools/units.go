package tools

import (
	"fmt"
	"strings"
)

// conversion is one directed entry in the unit table: a plain scalar factor,
// or a function for pairs that need more than multiplication (temperature).
type conversion struct {
	factor  float64
	special func(float64) float64
}

var conversionTable = map[string]conversion{
	// Length
	"mm_to_cm": {factor: 0.1},
	"cm_to_m":  {factor: 0.01},
	"m_to_km":  {factor: 0.001},
	"in_to_ft": {factor: 1.0 / 12},
	"ft_to_yd": {factor: 1.0 / 3},
	"yd_to_mi": {factor: 1.0 / 1760},
	// Weight
	"g_to_kg":  {factor: 0.001},
	"kg_to_lb": {factor: 2.20462},
	"lb_to_oz": {factor: 16},
	// Temperature
	"celsius_to_fahrenheit": {special: func(c float64) float64 { return c*9/5 + 32 }},
	"fahrenheit_to_celsius": {special: func(f float64) float64 { return (f - 32) * 5 / 9 }},
	"celsius_to_kelvin":     {special: func(c float64) float64 { return c + 273.15 }},
	"kelvin_to_celsius":     {special: func(k float64) float64 { return k - 273.15 }},
}

// ConversionResult is the outcome of a unit conversion.
type ConversionResult struct {
	OriginalValue  float64 `json:"original_value"`
	FromUnit       string  `json:"from_unit"`
	ToUnit         string  `json:"to_unit"`
	ConvertedValue float64 `json:"converted_value"`
	Formatted      string  `json:"formatted"`
}

// ConvertUnits converts a value between units. The table holds one direction
// per pair; the reverse direction divides by the scalar factor. Reversed
// temperature lookups are only coded for celsius and fahrenheit.
func ConvertUnits(args map[string]interface{}) (*ConversionResult, error) {
	value, err := floatArg(args, "value", 0)
	if err != nil {
		return nil, err
	}
	fromUnit, err := requireStringArg(args, "from_unit")
	if err != nil {
		return nil, err
	}
	toUnit, err := requireStringArg(args, "to_unit")
	if err != nil {
		return nil, err
	}
	fromUnit = strings.ToLower(fromUnit)
	toUnit = strings.ToLower(toUnit)

	result, err := convert(value, fromUnit, toUnit)
	if err != nil {
		return nil, err
	}

	return &ConversionResult{
		OriginalValue:  value,
		FromUnit:       fromUnit,
		ToUnit:         toUnit,
		ConvertedValue: result,
		Formatted:      fmt.Sprintf("%v %s = %v %s", value, fromUnit, result, toUnit),
	}, nil
}

func convert(value float64, fromUnit, toUnit string) (float64, error) {
	if fromUnit == toUnit {
		return value, nil
	}

	if c, ok := conversionTable[fromUnit+"_to_"+toUnit]; ok {
		if c.special != nil {
			return c.special(value), nil
		}
		return value * c.factor, nil
	}

	reverseKey := toUnit + "_to_" + fromUnit
	if c, ok := conversionTable[reverseKey]; ok {
		if c.special == nil {
			return value / c.factor, nil
		}
		// Explicit inverses for the celsius/fahrenheit pair only; other
		// temperature conversions must be looked up in their own direction.
		switch reverseKey {
		case "celsius_to_fahrenheit":
			return (value - 32) * 5 / 9, nil
		case "fahrenheit_to_celsius":
			return value*9/5 + 32, nil
		default:
			return 0, Errorf(CodeUnsupportedConversion, "cannot reverse convert %s to %s", fromUnit, toUnit)
		}
	}

	return 0, Errorf(CodeUnsupportedConversion, "conversion from %s to %s not supported", fromUnit, toUnit)
}
