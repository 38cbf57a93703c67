package mcp

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"tally/internal/core"
)

// Arguments wraps a decoded tool-call argument map with typed accessors.
// Every rejection is a ValidationError naming the offending argument, so
// the caller can fix the call without guessing.
type Arguments map[string]any

func argsFrom(req mcp.CallToolRequest) Arguments {
	return Arguments(req.GetArguments())
}

func (a Arguments) requireString(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", core.Validationf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", core.Validationf("argument %q must be a string", key)
	}
	return s, nil
}

// optionalString returns nil when the argument is absent or null. JSON
// null counts as "not provided", matching partial-update semantics.
func (a Arguments) optionalString(key string) (*string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, core.Validationf("argument %q must be a string", key)
	}
	return &s, nil
}

func (a Arguments) stringOr(key, fallback string) (string, error) {
	s, err := a.optionalString(key)
	if err != nil {
		return "", err
	}
	if s == nil {
		return fallback, nil
	}
	return *s, nil
}

func (a Arguments) requireDate(key string) (core.Date, error) {
	s, err := a.requireString(key)
	if err != nil {
		return core.Date{}, err
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, core.Validationf("argument %q: %v", key, err)
	}
	return d, nil
}

func (a Arguments) optionalDate(key string) (*core.Date, error) {
	s, err := a.optionalString(key)
	if err != nil || s == nil {
		return nil, err
	}
	d, err := core.ParseDate(*s)
	if err != nil {
		return nil, core.Validationf("argument %q: %v", key, err)
	}
	return &d, nil
}

func (a Arguments) requireAmount(key string) (core.Money, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return core.Money{}, core.Validationf("missing required argument %q", key)
	}
	m, err := core.ParseAmount(v)
	if err != nil {
		return core.Money{}, core.Validationf("argument %q: %v", key, err)
	}
	return m, nil
}

func (a Arguments) optionalAmount(key string) (*core.Money, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, err := core.ParseAmount(v)
	if err != nil {
		return nil, core.Validationf("argument %q: %v", key, err)
	}
	return &m, nil
}

// requireID accepts the numeric shapes JSON decoding can produce and
// insists on a positive integer.
func (a Arguments) requireID(key string) (int64, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, core.Validationf("missing required argument %q", key)
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < 1 {
			return 0, core.Validationf("argument %q must be a positive integer", key)
		}
		return int64(n), nil
	case int:
		if n < 1 {
			return 0, core.Validationf("argument %q must be a positive integer", key)
		}
		return int64(n), nil
	case int64:
		if n < 1 {
			return 0, core.Validationf("argument %q must be a positive integer", key)
		}
		return n, nil
	case json.Number:
		id, err := n.Int64()
		if err != nil || id < 1 {
			return 0, core.Validationf("argument %q must be a positive integer", key)
		}
		return id, nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil || id < 1 {
			return 0, core.Validationf("argument %q must be a positive integer", key)
		}
		return id, nil
	default:
		return 0, core.Validationf("argument %q must be a positive integer", key)
	}
}
