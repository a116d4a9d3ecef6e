package injector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xy-planning-network/switchback"
)

var (
	ErrLoad         = errors.New("unit failed to load")
	ErrUnitNotFound = fmt.Errorf("%w: unit", switchback.ErrNotExist)
)

// A NotFoundError reports a concrete unit the Injector has no path for.
// It carries the roots searched so a misconfigured deployment can be diagnosed.
type NotFoundError struct {
	Name  string
	Roots []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q (searched roots: %s)", ErrUnitNotFound, e.Name, strings.Join(e.Roots, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrUnitNotFound }
