// Package tools implements the tool handlers spec.md §4.B names: filesystem,
// shell, system, and clipboard operations. Every handler takes a
// tooltypes.Invocation's Params and returns a tooltypes.Result, consulting
// the security gate before any filesystem or shell access.
//
// Grounded on original_source/service/src/tools/{filesystem_tools,shell_tools,
// system_tools}.cpp for exact semantics (truncation behavior, glob rules,
// patch operation types); reworked from nlohmann::json-returning static
// methods into Go functions over a shared dependency struct.
package tools

import (
	"github.com/screenctl/screenctld/internal/toolerr"
)

func stringParam(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", toolerr.Validation("missing required parameter %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", toolerr.Validation("parameter %q must be a string", key)
	}
	return s, nil
}

func optionalString(params map[string]interface{}, key, def string) string {
	v, ok := params[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func optionalBool(params map[string]interface{}, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func optionalInt(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

func optionalList(params map[string]interface{}, key string) []interface{} {
	v, ok := params[key]
	if !ok {
		return nil
	}
	l, ok := v.([]interface{})
	if !ok {
		return nil
	}
	return l
}

func mapFromAny(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func valueOrEmpty(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
