/*
Package router matches request paths and methods against URL patterns registered in order.

A pattern is a slash-delimited path whose segments are either literals or captures.
A capture is a segment starting with '@':

	r := router.New().
		Register("/blog/@year/@slug", "Post.lua", "GET").
		Register("/users/@id", "User.lua", "GET,POST").
		Register("/", "Home.lua")

	m, ok := r.Dispatch("/blog/2014/hello-world", "GET", params)
	// m.Rule.Handler == "Post.lua"
	// m.Params.Get("year") == "2014"

The first matching rule wins, so register specific patterns before general ones.
*/
package router
