package scripting_test

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monbattle/internal/game/dice"
	"github.com/cory-johannsen/monbattle/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(dice.NewSeededSource(1), zap.New(core), 0)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func loadScripts(t testing.TB, mgr *scripting.Manager, files map[string]string) {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	require.NoError(t, mgr.Load(fsys))
}

func hasLevel(logs *observer.ObservedLogs, lvl zapcore.Level) bool {
	for _, e := range logs.All() {
		if e.Level == lvl {
			return true
		}
	}
	return false
}

func TestManager_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	loadScripts(t, mgr, map[string]string{"hooks.lua": `
		function test_hook(a, b)
			return a + b
		end
	`})
	ret, err := mgr.CallHook("test_hook", scripting.Bindings{}, lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	loadScripts(t, mgr, map[string]string{"empty.lua": `-- no functions`})
	ret, err := mgr.CallHook("nonexistent_hook", scripting.Bindings{})
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_NothingLoaded_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.CallHook("some_hook", scripting.Bindings{})
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zapcore.InfoLevel), "expected Info log when no scripts are loaded")
}

func TestManager_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	loadScripts(t, mgr, map[string]string{"bad.lua": `
		function bad_hook()
			error("intentional error")
		end
	`})
	ret, err := mgr.CallHook("bad_hook", scripting.Bindings{})
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zapcore.WarnLevel), "expected Warn log for Lua runtime error")
}

func TestManager_RunawayHookIsStopped(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(dice.NewSeededSource(1), zap.New(core), 500)
	defer mgr.Close()
	loadScripts(t, mgr, map[string]string{"spin.lua": `
		function spin() while true do end end
		function ok() return 1 end
	`})
	ret, err := mgr.CallHook("spin", scripting.Bindings{})
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.NotEmpty(t, logs.FilterMessage("scripting: Lua runtime error").All())

	ret, err = mgr.CallHook("ok", scripting.Bindings{})
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(1), ret, "VM usable after a stopped hook")
}

func TestManager_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	err := mgr.Load(fstest.MapFS{"bad.lua": &fstest.MapFile{Data: []byte(`this is not valid lua @@@@`)}})
	assert.Error(t, err)
}

func TestManager_MultipleFiles_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	loadScripts(t, mgr, map[string]string{
		"a.lua":     `base_val = 10`,
		"b.lua":     `function get_val() return base_val end`,
		"notes.txt": `ignored`,
	})
	ret, err := mgr.CallHook("get_val", scripting.Bindings{})
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestManager_LoadDir(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadDir(t.TempDir()))
	ret, err := mgr.CallHook("anything", scripting.Bindings{})
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)

	assert.Error(t, mgr.LoadDir("/nonexistent/scripts"))
}

func TestManager_Bindings(t *testing.T) {
	mgr, _ := newTestManager(t)
	loadScripts(t, mgr, map[string]string{"b.lua": `
		function bound()
			engine.log("hello from lua")
			return engine.heal("player", 12)
		end
	`})
	var lines []string
	var healedSide string
	b := scripting.Bindings{
		Heal: func(side string, amount int) int { healedSide = side; return amount - 2 },
		Log:  func(msg string) { lines = append(lines, msg) },
	}
	ret, err := mgr.CallHook("bound", b)
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
	assert.Equal(t, "player", healedSide)
	assert.Equal(t, []string{"hello from lua"}, lines)

	// Bindings do not leak into later calls.
	ret, err = mgr.CallHook("bound", scripting.Bindings{})
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(0), ret)
	assert.Len(t, lines, 1)
}

func TestManager_EngineRandom_InRange(t *testing.T) {
	mgr, _ := newTestManager(t)
	loadScripts(t, mgr, map[string]string{"r.lua": `function roll(n) return engine.random(n) end`})
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(rt, "n")
		ret, err := mgr.CallHook("roll", scripting.Bindings{}, lua.LNumber(n))
		if err != nil {
			rt.Fatal(err)
		}
		v := int(ret.(lua.LNumber))
		if v < 1 || v > n {
			rt.Fatalf("engine.random(%d) = %d", n, v)
		}
	})
}

func TestManager_ConcurrentCalls_NoRace(t *testing.T) {
	mgr, _ := newTestManager(t)
	loadScripts(t, mgr, map[string]string{"hooks.lua": `
		function concurrent_hook(a, b)
			return a + b
		end
	`})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				ret, err := mgr.CallHook("concurrent_hook", scripting.Bindings{}, lua.LNumber(1), lua.LNumber(2))
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(3), ret)
			}
		}()
	}
	wg.Wait()
}

func TestManager_Close_ReleasesVM(t *testing.T) {
	mgr, _ := newTestManager(t)
	loadScripts(t, mgr, map[string]string{"init.lua": `function get_x() return 1 end`})
	mgr.Close()
	ret, err := mgr.CallHook("get_x", scripting.Bindings{})
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestNewManager_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { scripting.NewManager(nil, zap.NewNop(), 0) })
	assert.Panics(t, func() { scripting.NewManager(dice.NewSeededSource(1), nil, 0) })
}

func TestDefaultScripts_StatusMoves(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load(scripting.DefaultFS()))

	user := scripting.CombatantInfo{Side: "player", Name: "Slowpoke", Level: 10, HP: 10, MaxHP: 40}
	target := scripting.CombatantInfo{Side: "opponent", Name: "Rattata", Level: 10, HP: 30, MaxHP: 30}

	var lines []string
	healed := 0
	b := scripting.Bindings{
		Heal: func(side string, amount int) int { healed = amount; return amount },
		Log:  func(msg string) { lines = append(lines, msg) },
	}

	claimed, err := mgr.CallStatusMove(scripting.MoveInfo{ID: "recover", Name: "Recover", Script: "recover"}, user, target, b)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, 20, healed)
	assert.Equal(t, []string{"Slowpoke restored 20 HP!"}, lines)

	lines = nil
	claimed, err = mgr.CallStatusMove(scripting.MoveInfo{ID: "growl", Name: "Growl", Script: "growl"}, user, target, b)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, []string{"Rattata's attack fell!"}, lines)

	lines = nil
	claimed, err = mgr.CallStatusMove(scripting.MoveInfo{ID: "splash", Name: "Splash"}, user, target, b)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, []string{"But nothing happened!"}, lines)
}
