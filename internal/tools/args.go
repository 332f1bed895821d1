package tools

import "strings"

// Argument values arrive from encoding/json, so numbers are float64 and
// everything else is string/bool/map/slice. These helpers coerce with a
// default for absent keys and an InvalidArgument error for wrong types.

func floatArg(args map[string]interface{}, key string, def float64) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, Errorf(CodeInvalidArgument, "%s must be a number, got %T", key, v)
	}
}

func intArg(args map[string]interface{}, key string, def int) (int, error) {
	f, err := floatArg(args, key, float64(def))
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func stringArg(args map[string]interface{}, key, def string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", Errorf(CodeInvalidArgument, "%s must be a string, got %T", key, v)
	}
	return s, nil
}

func requireStringArg(args map[string]interface{}, key string) (string, error) {
	s, err := stringArg(args, key, "")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", Errorf(CodeInvalidArgument, "%s is required", key)
	}
	return s, nil
}

func boolArg(args map[string]interface{}, key string, def bool) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, Errorf(CodeInvalidArgument, "%s must be a boolean, got %T", key, v)
	}
	return b, nil
}
