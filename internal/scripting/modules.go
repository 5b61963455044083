package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine table into L:
//
//	engine.heal(side, amount) -> restored
//	engine.log(msg)
//	engine.random(n)          -> uniform int in [1, n]
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "heal", L.NewFunction(m.luaHeal))
	L.SetField(engine, "log", L.NewFunction(m.luaLog))
	L.SetField(engine, "random", L.NewFunction(m.luaRandom))
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaHeal(L *lua.LState) int {
	side := L.CheckString(1)
	amount := L.CheckInt(2)
	restored := 0
	if m.current.Heal != nil {
		restored = m.current.Heal(side, amount)
	}
	L.Push(lua.LNumber(restored))
	return 1
}

func (m *Manager) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	m.logger.Debug("lua", zap.String("msg", msg))
	if m.current.Log != nil {
		m.current.Log(msg)
	}
	return 0
}

func (m *Manager) luaRandom(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 1 {
		n = 1
	}
	L.Push(lua.LNumber(1 + m.src.Intn(n)))
	return 1
}
