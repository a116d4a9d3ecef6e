package injector

import (
	"context"
	"io"

	"github.com/xy-planning-network/switchback"
)

//go:generate mockgen -destination=injectortest/mocks.go -package=injectortest . Handler,Loader

// A Handler serves a dispatched request.
// It writes whatever output it produces to w.
type Handler interface {
	Handle(ctx context.Context, w io.Writer, params switchback.Params) error
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc func(ctx context.Context, w io.Writer, params switchback.Params) error

// Handle calls fn.
func (fn HandlerFunc) Handle(ctx context.Context, w io.Writer, params switchback.Params) error {
	return fn(ctx, w, params)
}

// A Loader turns the file found at path into a Handler.
//
// An Injector calls Load at most once per unit name;
// whatever side effects loading has happen once.
type Loader interface {
	Load(ctx context.Context, path string) (Handler, error)
}

// LoaderFunc adapts a function into a Loader.
type LoaderFunc func(ctx context.Context, path string) (Handler, error)

// Load calls fn.
func (fn LoaderFunc) Load(ctx context.Context, path string) (Handler, error) {
	return fn(ctx, path)
}

// A Unit is a loaded handler, cached by the Injector under Name.
type Unit struct {
	// Name is the base file name of the unit, e.g., "Home.lua".
	Name string

	// Path is the absolute path the unit was loaded from.
	Path string

	Handler Handler
}

// Handle calls the Unit's Handler.
func (u *Unit) Handle(ctx context.Context, w io.Writer, params switchback.Params) error {
	return u.Handler.Handle(ctx, w, params)
}
