package host

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// toLValue converts a Go value into its Lua representation. Only the types
// the ping wire codec and the store produce are supported.
func toLValue(L *lua.LState, v any) (lua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return lua.LNil, nil
	case bool:
		return lua.LBool(x), nil
	case string:
		return lua.LString(x), nil
	case float64:
		return lua.LNumber(x), nil
	case float32:
		return lua.LNumber(x), nil
	case int:
		return lua.LNumber(x), nil
	case int64:
		return lua.LNumber(x), nil
	case uint32:
		return lua.LNumber(x), nil
	case map[string]any:
		tbl := L.NewTable()
		for k, elem := range x {
			lv, err := toLValue(L, elem)
			if err != nil {
				return nil, err
			}
			tbl.RawSetString(k, lv)
		}
		return tbl, nil
	case []any:
		tbl := L.NewTable()
		for _, elem := range x {
			lv, err := toLValue(L, elem)
			if err != nil {
				return nil, err
			}
			tbl.Append(lv)
		}
		return tbl, nil
	default:
		return nil, fmt.Errorf("value of type %T has no lua representation", v)
	}
}

// fromLValue converts a Lua value into its Go representation. Tables
// convert to map[string]any or []any depending on shape; functions and
// userdata are rejected.
func fromLValue(v lua.LValue) (any, error) {
	switch x := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(x), nil
	case lua.LString:
		return string(x), nil
	case lua.LNumber:
		return float64(x), nil
	case *lua.LTable:
		return fromLTable(x)
	default:
		return nil, fmt.Errorf("lua %s values cannot leave the script environment", v.Type())
	}
}

// fromLTable converts a table. A table whose keys form the sequence 1..n
// becomes []any, anything else map[string]any with stringified keys.
func fromLTable(tbl *lua.LTable) (any, error) {
	n := tbl.Len()
	isSeq := n > 0
	count := 0
	tbl.ForEach(func(k, _ lua.LValue) {
		count++
		num, ok := k.(lua.LNumber)
		if !ok || float64(num) != float64(int(num)) || int(num) < 1 || int(num) > n {
			isSeq = false
		}
	})

	if isSeq && count == n {
		out := make([]any, 0, n)
		var convErr error
		for i := 1; i <= n; i++ {
			elem, err := fromLValue(tbl.RawGetInt(i))
			if err != nil {
				convErr = err
				break
			}
			out = append(out, elem)
		}
		if convErr != nil {
			return nil, convErr
		}
		return out, nil
	}

	out := make(map[string]any, count)
	var convErr error
	tbl.ForEach(func(k, v lua.LValue) {
		if convErr != nil {
			return
		}
		elem, err := fromLValue(v)
		if err != nil {
			convErr = err
			return
		}
		out[k.String()] = elem
	})
	if convErr != nil {
		return nil, convErr
	}
	return out, nil
}

// deepCopyLValue clones tables recursively so callers never share backing
// storage with a preset. Non-table values are immutable in Lua and pass
// through.
func deepCopyLValue(L *lua.LState, v lua.LValue) lua.LValue {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return v
	}
	dst := L.NewTable()
	tbl.ForEach(func(k, elem lua.LValue) {
		dst.RawSet(k, deepCopyLValue(L, elem))
	})
	return dst
}
