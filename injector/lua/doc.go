/*
Package lua loads .lua files as injector units.

A script defines a global handle function taking the request params as a table:

	local greeting = "hello"

	function handle(params)
		return greeting .. " " .. params.name
	end

Top-level statements run once, when the unit is loaded.
handle runs per request; it may return a string to write or call write as it goes.

Scripts run sandboxed: no io, os, package or debug libraries, nor functions that read files or compile code.
Go code offers scripts more through WithModule.
*/
package lua
