package mcpserver

import (
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// JSON numbers arrive as float64; only whole values are accepted.
func toInt(name string, v any) (int, error) {
	f, ok := v.(float64)
	if !ok {
		if i, isInt := v.(int); isInt {
			return i, nil
		}
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	return int(f), nil
}

func requireInt(req mcp.CallToolRequest, name string) (int, error) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return 0, fmt.Errorf("required argument %q not found", name)
	}
	return toInt(name, v)
}

func optionalInt(req mcp.CallToolRequest, name string, def int) (int, error) {
	v, ok := req.GetArguments()[name]
	if !ok || v == nil {
		return def, nil
	}
	return toInt(name, v)
}

func optionalString(req mcp.CallToolRequest, name string) string {
	if s, ok := req.GetArguments()[name].(string); ok {
		return s
	}
	return ""
}

func intSlice(req mcp.CallToolRequest, name string) ([]int, error) {
	v, ok := req.GetArguments()[name]
	if !ok || v == nil {
		return nil, nil
	}
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []int:
		return t, nil
	default:
		return nil, fmt.Errorf("%s must be an array of integers", name)
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, err := toInt(fmt.Sprintf("%s[%d]", name, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
