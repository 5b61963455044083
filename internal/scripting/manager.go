package scripting

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monbattle/internal/game/dice"
)

// StatusMoveHook is the global Lua function invoked when a status move hits.
const StatusMoveHook = "on_status_move"

// CombatantInfo is a snapshot of a combatant's state passed to Lua callbacks.
type CombatantInfo struct {
	Side    string
	Name    string
	Species string
	Level   int
	HP      int
	MaxHP   int
}

// MoveInfo is a snapshot of the move being resolved.
type MoveInfo struct {
	ID       string
	Name     string
	Type     string
	Script   string
	Accuracy int
}

// Bindings connect the engine.* Lua functions to the battle driving the call.
// A nil field makes the matching Lua function a no-op.
type Bindings struct {
	// Heal restores up to amount HP to side's active member and returns the HP restored.
	Heal func(side string, amount int) int
	// Log appends one narration line.
	Log func(msg string)
}

// Manager owns one sandboxed LState loaded with every status-move script and
// dispatches hooks into it.
//
// Manager is safe for concurrent use; calls into the VM are serialized.
type Manager struct {
	mu      sync.Mutex
	state   *lua.LState
	limit   int
	src     dice.Source
	logger  *zap.Logger
	current Bindings
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: src and logger must be non-nil; instLimit <= 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager; panics if src or logger is nil.
func NewManager(src dice.Source, logger *zap.Logger, instLimit int) *Manager {
	if src == nil {
		panic("scripting.NewManager: src must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	return &Manager{src: src, logger: logger, limit: instLimit}
}

// LoadDir loads every *.lua file in dir. See Load.
func (m *Manager) LoadDir(dir string) error {
	return m.Load(os.DirFS(dir))
}

// Load creates a fresh VM, registers the engine.* modules, then executes
// every *.lua file at the root of fsys in lexicographic order. A previously
// loaded VM is replaced only when every file loads.
//
// Postcondition: Returns an error naming the first file that fails.
func (m *Manager) Load(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("scripting: reading scripts: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".lua" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	L := NewSandboxedState()
	m.RegisterModules(L)
	for _, name := range files {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: reading %q: %w", name, err)
		}
		if err := Limited(L, m.limit, func() error { return L.DoString(string(src)) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", name, err)
		}
	}

	m.mu.Lock()
	old := m.state
	m.state = L
	m.mu.Unlock()
	if old != nil {
		old.Close()
	}
	m.logger.Debug("scripts loaded", zap.Int("files", len(files)))
	return nil
}

// CallHook calls the named Lua global with b bound to the engine.* functions.
// Returns (LNil, nil) if no scripts are loaded or the hook is not defined.
// Lua runtime errors, including an exhausted instruction budget, are logged at
// Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, b Bindings, args ...lua.LValue) (lua.LValue, error) {
	return m.call(hook, b, func(*lua.LState) []lua.LValue { return args })
}

// CallStatusMove invokes on_status_move(move, user, target) and reports
// whether the script claimed the move.
func (m *Manager) CallStatusMove(mv MoveInfo, user, target CombatantInfo, b Bindings) (bool, error) {
	ret, err := m.call(StatusMoveHook, b, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{moveTable(L, mv), combatantTable(L, user), combatantTable(L, target)}
	})
	if err != nil {
		return false, err
	}
	return lua.LVAsBool(ret), nil
}

func (m *Manager) call(hook string, b Bindings, args func(*lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L := m.state
	if L == nil {
		m.logger.Info("scripting: no scripts loaded", zap.String("hook", hook))
		return lua.LNil, nil
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	m.current = b
	defer func() { m.current = Bindings{} }()

	err := Limited(L, m.limit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args(L)...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases the VM. Subsequent calls are no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

func moveTable(L *lua.LState, mv MoveInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(mv.ID))
	t.RawSetString("name", lua.LString(mv.Name))
	t.RawSetString("type", lua.LString(mv.Type))
	t.RawSetString("script", lua.LString(mv.Script))
	t.RawSetString("accuracy", lua.LNumber(mv.Accuracy))
	return t
}

func combatantTable(L *lua.LState, c CombatantInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("side", lua.LString(c.Side))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("species", lua.LString(c.Species))
	t.RawSetString("level", lua.LNumber(c.Level))
	t.RawSetString("hp", lua.LNumber(c.HP))
	t.RawSetString("max_hp", lua.LNumber(c.MaxHP))
	return t
}
