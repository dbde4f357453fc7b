package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/l1jgo/ecscore/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM and exposes one scalar component
// store to it as the global table `store`:
//
//	store.add(id, v)   -> v actually stored (first write wins)
//	store.get(id)      -> number or nil
//	store.has(id)      -> bool
//	store.erase(id)
//	store.size()       -> number
//	store.sum()        -> number
//	store.sort([desc]) -- reorder by value
//	store.each(fn)     -- fn(id, v) in physical order; fn must not mutate the store
//	store.entities()   -> array of ids in physical order
//
// Single-goroutine access only.
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	store *ecs.ComponentManager[float64]
}

// NewEngine creates a Lua engine bound to store and loads all scripts from
// dir. An empty dir loads nothing.
func NewEngine(dir string, store *ecs.ComponentManager[float64], log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, store: store}
	e.bindStore()

	if dir != "" {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// Call invokes the global function name with numeric arguments and returns
// its first result as a number (0 when it returns nothing numeric).
func (e *Engine) Call(name string, args ...float64) (float64, error) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return 0, fmt.Errorf("lua function %s not found", name)
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0, fmt.Errorf("lua %s: %w", name, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return float64(lua.LVAsNumber(result)), nil
}

func (e *Engine) bindStore() {
	t := e.vm.NewTable()
	e.vm.SetFuncs(t, map[string]lua.LGFunction{
		"add":      e.luaAdd,
		"get":      e.luaGet,
		"has":      e.luaHas,
		"erase":    e.luaErase,
		"size":     e.luaSize,
		"sum":      e.luaSum,
		"sort":     e.luaSort,
		"each":     e.luaEach,
		"entities": e.luaEntities,
	})
	e.vm.SetGlobal("store", t)
}

// checkEntity reads argument n as an entity id.
func checkEntity(L *lua.LState, n int) ecs.Entity {
	id := L.CheckInt64(n)
	if id < 0 || id > int64(^uint32(0)) {
		L.ArgError(n, "entity id out of range")
	}
	return ecs.NewEntity(uint32(id))
}

func (e *Engine) luaAdd(L *lua.LState) int {
	ent := checkEntity(L, 1)
	v := float64(L.CheckNumber(2))
	L.Push(lua.LNumber(*e.store.EmplaceBack(ent, v)))
	return 1
}

func (e *Engine) luaGet(L *lua.LState) int {
	v := e.store.Get(checkEntity(L, 1))
	if v == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(*v))
	return 1
}

func (e *Engine) luaHas(L *lua.LState) int {
	L.Push(lua.LBool(e.store.Contains(checkEntity(L, 1))))
	return 1
}

func (e *Engine) luaErase(L *lua.LState) int {
	e.store.Erase(checkEntity(L, 1))
	return 0
}

func (e *Engine) luaSize(L *lua.LState) int {
	L.Push(lua.LNumber(e.store.Len()))
	return 1
}

func (e *Engine) luaSum(L *lua.LState) int {
	var sum float64
	for _, v := range e.store.Components() {
		sum += v
	}
	L.Push(lua.LNumber(sum))
	return 1
}

func (e *Engine) luaSort(L *lua.LState) int {
	less := func(a, b *float64) bool { return *a < *b }
	if L.OptBool(1, false) {
		less = func(a, b *float64) bool { return *a > *b }
	}
	e.store.Sort(less)
	return 0
}

func (e *Engine) luaEach(L *lua.LState) int {
	fn := L.CheckFunction(1)
	for r := range e.store.Records() {
		if err := L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, lua.LNumber(r.GetEntity().GetID()), lua.LNumber(*r.GetComponent())); err != nil {
			L.RaiseError("store.each: %s", err.Error())
			return 0
		}
	}
	return 0
}

func (e *Engine) luaEntities(L *lua.LState) int {
	t := L.CreateTable(e.store.Len(), 0)
	for _, ent := range e.store.Entities() {
		t.Append(lua.LNumber(ent.GetID()))
	}
	L.Push(t)
	return 1
}

// SortedEntities returns the ids currently in the store in ascending order.
func (e *Engine) SortedEntities() []ecs.Entity {
	out := append([]ecs.Entity(nil), e.store.Entities()...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
