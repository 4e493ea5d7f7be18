package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/quill/internal/evaluator"
)

// parseArgs reads a comma separated argument list such as `1, 2.5, "s", [1, 2], null`.
// The list is decoded as a YAML flow sequence.
func parseArgs(s string) ([]evaluator.Value, error) {
	if s == "" {
		return nil, nil
	}
	var raw []interface{}
	if err := yaml.Unmarshal([]byte("["+s+"]"), &raw); err != nil {
		return nil, fmt.Errorf("parsing arguments %q: %w", s, err)
	}
	values := make([]evaluator.Value, len(raw))
	for i, r := range raw {
		v, err := toValue(r)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

func toValue(r interface{}) (evaluator.Value, error) {
	switch v := r.(type) {
	case nil:
		return evaluator.NULL, nil
	case bool:
		if v {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case int:
		return evaluator.NewInt(int64(v)), nil
	case int64:
		return evaluator.NewInt(v), nil
	case uint64:
		return nil, fmt.Errorf("%d overflows int", v)
	case float64:
		return evaluator.NewFloat(v), nil
	case string:
		return evaluator.NewString(v), nil
	case []interface{}:
		arr := &evaluator.Array{Elements: make([]evaluator.Value, len(v))}
		for i, el := range v {
			val, err := toValue(el)
			if err != nil {
				return nil, err
			}
			arr.Elements[i] = val
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported argument %v (%T)", r, r)
	}
}

// call is one line of a batch file.
type call struct {
	Entry string `yaml:"entry"`
	Args  string `yaml:"args"`
}

func parseCalls(data []byte, path string) ([]call, error) {
	var calls []call
	if err := yaml.Unmarshal(data, &calls); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return calls, nil
}
