package script

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// toLua converts a Go value to Lua. Values with no Lua counterpart become
// their %v string.
func toLua(L *lua.LState, val any) lua.LValue {
	switch v := val.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return v
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(float64(v))
	case int64:
		return lua.LNumber(float64(v))
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case []any:
		tbl := L.NewTable()
		for i, item := range v {
			L.RawSetInt(tbl, i+1, toLua(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			L.SetField(tbl, k, toLua(L, v[k]))
		}
		return tbl
	case fmt.Stringer:
		return lua.LString(v.String())
	default:
		return lua.LString(fmt.Sprintf("%v", v))
	}
}

// fromLua converts a Lua value to Go: tables with only positive integer keys
// become []any, other tables map[string]any. Keys starting with "_" are
// internal and skipped.
func fromLua(val lua.LValue) any {
	switch v := val.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		hasNumericKeys := false
		hasStringKeys := false
		maxN := 0
		v.ForEach(func(key, _ lua.LValue) {
			if n, ok := key.(lua.LNumber); ok {
				hasNumericKeys = true
				maxN = max(maxN, int(n))
			} else if ks, ok := key.(lua.LString); ok && !strings.HasPrefix(string(ks), "_") {
				hasStringKeys = true
			}
		})

		if hasNumericKeys && !hasStringKeys && maxN > 0 {
			arr := make([]any, maxN)
			for i := 1; i <= maxN; i++ {
				arr[i-1] = fromLua(v.RawGetInt(i))
			}
			return arr
		}

		m := make(map[string]any)
		v.ForEach(func(key, value lua.LValue) {
			if ks, ok := key.(lua.LString); ok && !strings.HasPrefix(string(ks), "_") {
				m[string(ks)] = fromLua(value)
			}
		})
		return m
	}
	return nil
}
