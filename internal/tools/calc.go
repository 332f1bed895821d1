package tools

import (
	"fmt"
	"math"
)

// BasicCalcResult is the outcome of a two-operand arithmetic operation.
type BasicCalcResult struct {
	Operation string             `json:"operation"`
	Inputs    map[string]float64 `json:"inputs"`
	Result    float64            `json:"result"`
	Formatted string             `json:"formatted"`
}

// AdvancedCalcResult is the outcome of a single-operand math operation.
type AdvancedCalcResult struct {
	Operation string  `json:"operation"`
	Input     float64 `json:"input"`
	Result    float64 `json:"result"`
	Formatted string  `json:"formatted"`
}

// CalculateBasic handles add, subtract, multiply, and divide.
func CalculateBasic(operation string, args map[string]interface{}) (*BasicCalcResult, error) {
	a, err := floatArg(args, "a", 0)
	if err != nil {
		return nil, err
	}
	b, err := floatArg(args, "b", 0)
	if err != nil {
		return nil, err
	}

	var result float64
	switch operation {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		if b == 0 {
			return nil, Errorf(CodeDivisionByZero, "cannot divide by zero")
		}
		result = a / b
	default:
		return nil, Errorf(CodeInvalidArgument, "unknown operation: %s", operation)
	}

	return &BasicCalcResult{
		Operation: operation,
		Inputs:    map[string]float64{"a": a, "b": b},
		Result:    result,
		Formatted: fmt.Sprintf("%v %s %v = %v", a, operation, b, result),
	}, nil
}

// CalculateAdvanced handles power, sqrt, log, and the trigonometric
// operations. Trig functions take degrees and convert to radians internally.
func CalculateAdvanced(operation string, args map[string]interface{}) (*AdvancedCalcResult, error) {
	x, err := floatArg(args, "x", 0)
	if err != nil {
		return nil, err
	}

	var result float64
	switch operation {
	case "power":
		y, err := floatArg(args, "y", 2)
		if err != nil {
			return nil, err
		}
		result = math.Pow(x, y)
	case "sqrt":
		if x < 0 {
			return nil, Errorf(CodeInvalidDomain, "cannot take square root of negative number")
		}
		result = math.Sqrt(x)
	case "log":
		if x <= 0 {
			return nil, Errorf(CodeInvalidDomain, "cannot take logarithm of non-positive number")
		}
		base, err := floatArg(args, "base", math.E)
		if err != nil {
			return nil, err
		}
		result = math.Log(x) / math.Log(base)
	case "sin":
		result = math.Sin(x * math.Pi / 180)
	case "cos":
		result = math.Cos(x * math.Pi / 180)
	case "tan":
		result = math.Tan(x * math.Pi / 180)
	default:
		return nil, Errorf(CodeInvalidArgument, "unknown operation: %s", operation)
	}

	return &AdvancedCalcResult{
		Operation: operation,
		Input:     x,
		Result:    result,
		Formatted: fmt.Sprintf("%s(%v) = %v", operation, x, result),
	}, nil
}
