package script

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// ToGo converts a scalar Lua value. Integral numbers become int, other
// numbers float64. Tables and functions are rejected.
func ToGo(v lua.LValue) (any, error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int(f), nil
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", v.Type())
	}
}

// FromGo converts a Go scalar to a Lua value.
func FromGo(v any) (lua.LValue, error) {
	switch v := v.(type) {
	case nil:
		return lua.LNil, nil
	case bool:
		return lua.LBool(v), nil
	case string:
		return lua.LString(v), nil
	case int:
		return lua.LNumber(v), nil
	case int64:
		return lua.LNumber(v), nil
	case float64:
		return lua.LNumber(v), nil
	default:
		return lua.LNil, fmt.Errorf("unsupported value of type %T", v)
	}
}

// Strings converts a Lua array of strings.
func Strings(v lua.LValue) ([]string, error) {
	if v == lua.LNil {
		return nil, nil
	}
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %s", v.Type())
	}
	out := make([]string, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		s, ok := t.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("item %d is not a string", i)
		}
		out = append(out, string(s))
	}
	return out, nil
}
