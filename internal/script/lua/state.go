// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package lua

import (
	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
)

// safeLibrary is a Lua library that may be loaded into a sandboxed state.
type safeLibrary struct {
	name string
	fn   lua.LGFunction
}

// defaultSafeLibraries returns base, table, string and math. os, io, debug,
// package, coroutine and channel are never opened.
func defaultSafeLibraries() []safeLibrary {
	return []safeLibrary{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
}

// unsafeBaseFunctions reach the filesystem or compile arbitrary chunks.
var unsafeBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load", "require", "module", "collectgarbage"}

// stateFactory creates sandboxed Lua states.
type stateFactory struct {
	libraries     []safeLibrary
	callStackSize int
}

func newStateFactory(callStackSize int) *stateFactory {
	return &stateFactory{
		libraries:     defaultSafeLibraries(),
		callStackSize: callStackSize,
	}
}

// newState returns a fresh state with only the safe libraries loaded and the
// unsafe base functions removed. The caller must Close it.
func (f *stateFactory) newState() (*lua.LState, error) {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: f.callStackSize,
	})

	for _, lib := range f.libraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, oops.Code(CodeStateFailed).With("library", lib.name).Wrap(err)
		}
	}

	for _, fn := range unsafeBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}
	return L, nil
}
