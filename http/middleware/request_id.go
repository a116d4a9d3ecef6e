package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/switchback"
)

// RequestIDHeader is the response header RequestID echoes the request's ID in.
const RequestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under switchback.RequestIDKey
// and sets it on the response's X-Request-Id header.
//
// A request arriving with an X-Request-Id header that parses as a uuid keeps that ID.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), switchback.RequestIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
