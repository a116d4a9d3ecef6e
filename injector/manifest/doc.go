// Package manifest loads .hcl unit manifests, binding a unit name to a handler built in Go.
package manifest
