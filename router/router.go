package router

import (
	"strings"
	"sync"

	"github.com/xy-planning-network/switchback"
)

// MethodAll matches a request of any method.
const MethodAll = "ALL"

// A Rule maps a URL pattern and request method to the name of the handler serving it.
type Rule struct {
	Pattern string
	Handler string
	Method  string

	compiled Pattern
}

// Compiled returns the Pattern r matches paths with.
func (r Rule) Compiled() Pattern { return r.compiled }

// allows reports whether r serves requests using method.
func (r Rule) allows(method string) bool {
	return r.Method == MethodAll || strings.EqualFold(r.Method, method)
}

// A Match is the Rule a request matched
// and the request's params with the values the Rule's pattern captured set over them.
type Match struct {
	Rule   Rule
	Params switchback.Params
}

// A Router holds Rules in the order they are registered
// and matches requests against them in that order.
//
// A Router is safe for concurrent use.
type Router struct {
	mu    sync.RWMutex
	rules []Rule
}

// New constructs an empty *Router.
func New() *Router {
	return &Router{}
}

// Register adds a Rule routing requests whose path matches pattern to handler.
//
// method may be omitted, meaning MethodAll,
// or list methods, each of which may itself be a comma separated list, e.g., "GET,POST".
// Register adds one Rule per method.
//
// Register panics if pattern cannot be compiled.
// Use Add when patterns come from outside the program.
func (r *Router) Register(pattern, handler string, method ...string) *Router {
	if err := r.add(pattern, handler, method); err != nil {
		panic(err)
	}

	return r
}

// Add adds rule to r, adding one Rule per method if rule.Method is a comma separated list.
// An empty rule.Method means MethodAll.
//
// Add returns an error wrapping ErrBadPattern or ErrDuplicateCapture
// if rule.Pattern cannot be compiled.
func (r *Router) Add(rule Rule) error {
	return r.add(rule.Pattern, rule.Handler, []string{rule.Method})
}

func (r *Router) add(pattern, handler string, methods []string) error {
	compiled, err := Compile(pattern)
	if err != nil {
		return err
	}

	methods = splitMethods(methods)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range methods {
		r.rules = append(r.rules, Rule{Pattern: pattern, Handler: handler, Method: m, compiled: compiled})
	}

	return nil
}

// Dispatch finds the first Rule, in registration order,
// allowing method and whose pattern matches path.
//
// The returned Match's Params are a copy of params with captured values set over them;
// params itself is never modified.
func (r *Router) Dispatch(path, method string, params switchback.Params) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rule := range r.rules {
		if !rule.allows(method) {
			continue
		}

		captures, ok := rule.compiled.Match(path)
		if !ok {
			continue
		}

		merged := params.Clone()
		merged.Merge(captures)
		return Match{Rule: rule, Params: merged}, true
	}

	return Match{}, false
}

// Len returns the number of Rules registered.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}

// Rules returns a copy of the registered Rules in registration order.
func (r *Router) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, len(r.rules))
	copy(rules, r.rules)
	return rules
}

func splitMethods(methods []string) []string {
	var split []string
	for _, m := range methods {
		for _, part := range strings.Split(m, ",") {
			if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
				split = append(split, part)
			}
		}
	}

	if len(split) == 0 {
		return []string{MethodAll}
	}

	return split
}
