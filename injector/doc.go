/*
Package injector discovers, loads and caches handler units by name.

A unit is a file under one of the Injector's roots whose extension has a Loader registered for it.
Configure walks each root and indexes every unit by its base name, e.g., "Home.lua".
Resolve then turns names into loaded Units:

	inj := injector.New(map[string]injector.Loader{".lua": lua.NewLoader()})
	inj.Configure("app")

	units, err := inj.Resolve(ctx, injector.UnitRef("controllers/Home.lua"), injector.CategoryRef("libs"))

A unit Ref names one file, optionally with the directories containing it.
A category Ref names a directory; every unit found beneath a directory of that name is resolved,
save for the Injector's own units (see WithSelf).

Each unit is loaded the first time it is resolved and never again.
When two roots hold a file with the same base name, the path indexed last wins.
*/
package injector
