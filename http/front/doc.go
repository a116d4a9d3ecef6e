// Package front serves HTTP requests through a dispatch.Dispatcher.
package front
