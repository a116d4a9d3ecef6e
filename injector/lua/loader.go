package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/logger"
	lua "github.com/yuin/gopher-lua"
)

// Ext is the file extension Lua units carry.
const Ext = ".lua"

const (
	// HandleFunc is the global function a script must define.
	HandleFunc = "handle"

	// WriteFunc is the global function a script may call while handling to write output.
	WriteFunc = "write"
)

var (
	ErrClosed   = errors.New("lua script closed")
	ErrNoHandle = fmt.Errorf("%w: lua script defines no %s function", switchback.ErrNotValid, HandleFunc)
	ErrScript   = errors.New("lua script failed")
)

// unsafeGlobals are removed from every state after the base library opens.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// A Loader loads .lua files into Scripts.
//
// Each Script gets its own sandboxed state:
// only the base, table, string and math libraries are open,
// and functions reading files or compiling code are removed.
type Loader struct {
	log     logger.Logger
	modules map[string]map[string]lua.LGFunction
}

// An Option configures a *Loader when constructing a new one.
type Option func(*Loader)

// WithLogger sets the logger.Logger the Loader logs through.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		ld.log = l
	}
}

// WithModule exposes funcs to every script as a global table called name,
// e.g., a "db" module a script calls as db.find(id).
func WithModule(name string, funcs map[string]lua.LGFunction) Option {
	return func(ld *Loader) {
		ld.modules[name] = funcs
	}
}

// NewLoader constructs a *Loader.
func NewLoader(opts ...Option) *Loader {
	ld := &Loader{modules: make(map[string]map[string]lua.LGFunction)}
	for _, opt := range opts {
		opt(ld)
	}

	if ld.log == nil {
		ld.log = logger.NewLogger()
	}

	return ld
}

// Load runs the script at path once and returns it as a *Script.
//
// Top-level statements run during Load;
// the script's handle function runs each time the Script handles a request.
func (ld *Loader) Load(ctx context.Context, path string) (injector.Handler, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	for name, funcs := range ld.modules {
		L.SetGlobal(name, L.SetFuncs(L.NewTable(), funcs))
	}

	L.SetContext(ctx)
	err := L.DoFile(path)
	L.RemoveContext()
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s", ErrScript, err)
	}

	if L.GetGlobal(HandleFunc).Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoHandle, path)
	}

	ld.log.Debug("loaded lua script", &logger.LogContext{Data: map[string]any{"path": path}})
	return &Script{path: path, L: L}, nil
}

// A Script is a loaded Lua unit.
//
// A Script is safe for concurrent use; calls into its state are serialized.
type Script struct {
	path string

	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// Handle calls the script's handle function with params as a table.
//
// Whatever handle returns, if a string or number, is written to w,
// as is anything the script passes to write while it runs.
// handle reports failure the Lua way, by returning nil and a message.
func (s *Script) Handle(ctx context.Context, w io.Writer, params switchback.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	fn := s.L.GetGlobal(HandleFunc)
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("%w: %s", ErrNoHandle, s.path)
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	s.L.SetGlobal(WriteFunc, s.L.NewFunction(func(L *lua.LState) int {
		if _, err := io.WriteString(w, L.CheckString(1)); err != nil {
			L.RaiseError("%s", err)
		}
		return 0
	}))
	defer s.L.SetGlobal(WriteFunc, lua.LNil)

	if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 2, Protect: true}, paramsTable(s.L, params)); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrScript, s.path, err)
	}

	ret, fail := s.L.Get(-2), s.L.Get(-1)
	s.L.Pop(2)

	if fail != lua.LNil {
		return fmt.Errorf("%w: %s: %s", ErrScript, s.path, fail.String())
	}

	switch ret.Type() {
	case lua.LTNil:
		return nil
	case lua.LTString, lua.LTNumber:
		_, err := io.WriteString(w, ret.String())
		return err
	default:
		return fmt.Errorf("%w: %s: %s returned a %s", ErrScript, s.path, HandleFunc, ret.Type())
	}
}

// Close releases the script's state.
// A closed Script returns ErrClosed from Handle.
func (s *Script) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.L.Close()
		s.closed = true
	}

	return nil
}

func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

func paramsTable(L *lua.LState, params switchback.Params) *lua.LTable {
	tbl := L.CreateTable(0, params.Len())
	for _, k := range params.Keys() {
		tbl.RawSetString(k, lua.LString(params.Get(k)))
	}

	return tbl
}
