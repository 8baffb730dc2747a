// Package script lets a Lua script decide what content restored layout
// elements get. The script defines a global function
//
//	function resolve(item, previous) ... end
//
// item describes the restored element (kind, contentId, title, hidden,
// autoHidden, canClose, canFloat) and previous is the content of the live
// element with the same ContentId, or nil. The return value decides:
//
//	nil                     no content: anchorables are hidden, documents closed
//	false                   close the element
//	true                    reuse previous
//	string, number, array   use the value as content
//	table                   {cancel=bool, content=any, title=string}
package script

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/serializer"
)

// FuncName is the global the script must define.
const FuncName = "resolve"

// ErrNoResolveFunc is returned when a script does not define resolve.
var ErrNoResolveFunc = errors.New("script does not define " + FuncName)

// Resolver runs resolve in its own Lua state. Calls are serialized.
type Resolver struct {
	mu   sync.Mutex
	L    *lua.LState
	name string
	log  *zap.Logger
}

// Load runs the script at path.
func Load(path string, log *zap.Logger) (*Resolver, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resolver script: %w", err)
	}
	return LoadString(path, string(code), log)
}

// LoadString runs code, naming it name in error messages.
func LoadString(name, code string, log *zap.Logger) (*Resolver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		L:    lua.NewState(),
		name: name,
		log:  log.With(zap.String("script", name)),
	}
	r.registerDock()

	fn, err := r.L.Load(strings.NewReader(code), name)
	if err != nil {
		r.L.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	r.L.Push(fn)
	if err := r.L.PCall(0, lua.MultRet, nil); err != nil {
		r.L.Close()
		return nil, fmt.Errorf("run %s: %w", name, err)
	}
	if _, ok := r.L.GetGlobal(FuncName).(*lua.LFunction); !ok {
		r.L.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoResolveFunc)
	}
	return r, nil
}

// registerDock installs the dock table: dock.log(msg) and dock.warn(msg).
func (r *Resolver) registerDock() {
	tbl := r.L.NewTable()
	r.L.SetField(tbl, "log", r.L.NewFunction(func(L *lua.LState) int {
		r.log.Info(L.CheckString(1))
		return 0
	}))
	r.L.SetField(tbl, "warn", r.L.NewFunction(func(L *lua.LState) int {
		r.log.Warn(L.CheckString(1))
		return 0
	}))
	r.L.SetGlobal("dock", tbl)
}

// Close releases the Lua state.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.L.Close()
}

// Resolve calls the script for one restored element. Script errors are
// logged and treated as "no content".
func (r *Resolver) Resolve(req serializer.Request) serializer.Response {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := req.Model.Base()
	log := r.log.With(zap.String("contentId", base.ContentID))
	err := r.L.CallByParam(lua.P{
		Fn:      r.L.GetGlobal(FuncName),
		NRet:    1,
		Protect: true,
	}, r.item(req.Model), toLua(r.L, req.Previous))
	if err != nil {
		log.Warn("resolve failed", zap.Error(err))
		return serializer.Response{}
	}
	ret := r.L.Get(-1)
	r.L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return serializer.Response{}
	case lua.LBool:
		if !bool(v) {
			return serializer.Response{Cancel: true}
		}
		return serializer.Response{Content: req.Previous}
	case *lua.LTable:
		if _, ok := v.RawGetString("cancel").(lua.LBool); ok || v.RawGetString("content") != lua.LNil || v.RawGetString("title") != lua.LNil {
			return r.directive(v, base)
		}
	}
	return serializer.Response{Content: fromLua(ret)}
}

func (r *Resolver) directive(tbl *lua.LTable, base *layout.LayoutContent) serializer.Response {
	if title, ok := tbl.RawGetString("title").(lua.LString); ok {
		base.Title = string(title)
	}
	if lua.LVAsBool(tbl.RawGetString("cancel")) {
		return serializer.Response{Cancel: true}
	}
	return serializer.Response{Content: fromLua(tbl.RawGetString("content"))}
}

// item describes model to the script.
func (r *Resolver) item(model layout.Content) *lua.LTable {
	base := model.Base()
	tbl := r.L.NewTable()
	r.L.SetField(tbl, "contentId", lua.LString(base.ContentID))
	r.L.SetField(tbl, "title", lua.LString(base.Title))
	r.L.SetField(tbl, "canClose", lua.LBool(base.CanClose))
	r.L.SetField(tbl, "canFloat", lua.LBool(base.CanFloat))
	switch m := model.(type) {
	case *layout.Anchorable:
		r.L.SetField(tbl, "kind", lua.LString("anchorable"))
		r.L.SetField(tbl, "hidden", lua.LBool(m.IsHidden()))
		r.L.SetField(tbl, "autoHidden", lua.LBool(m.IsAutoHidden()))
	case *layout.Document:
		r.L.SetField(tbl, "kind", lua.LString("document"))
	}
	return tbl
}
