package front

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/dispatch"
	"github.com/xy-planning-network/switchback/logger"
)

// A Dispatcher handles a dispatch.Request, writing the handler's output to w.
type Dispatcher interface {
	Handle(ctx context.Context, w io.Writer, req dispatch.Request) (dispatch.Result, error)
}

// A Handler serves HTTP requests by dispatching them.
//
// Handler output is buffered, so a handler failing partway never sends a partial response:
//   - a request no rule matches is answered 404 Not Found
//   - a request whose body cannot be parsed is answered 400 Bad Request
//   - a request whose handler fails or cannot be resolved is answered 500 Internal Server Error
//     and the failure is logged
type Handler struct {
	d       Dispatcher
	log     logger.Logger
	maxBody int64
}

// An Option configures a *Handler when constructing a new one.
type Option func(*Handler)

// WithLogger sets the logger.Logger the Handler logs through.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		h.log = l
	}
}

// WithMaxBody caps how many bytes of a request body are read.
// By default, that is DefaultMaxBody.
func WithMaxBody(n int64) Option {
	return func(h *Handler) {
		h.maxBody = n
	}
}

// New constructs a *Handler dispatching through d.
func New(d Dispatcher, opts ...Option) *Handler {
	h := &Handler{d: d, maxBody: DefaultMaxBody}
	for _, opt := range opts {
		opt(h)
	}

	if h.log == nil {
		h.log = logger.NewLogger()
	}

	return h
}

// ServeHTTP responds to an HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := NewRequest(r, h.maxBody)
	if err != nil {
		h.log.Warn("failed reading request params", &logger.LogContext{Error: err, Request: r})
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	buf := new(bytes.Buffer)
	res, err := h.d.Handle(r.Context(), buf, req)
	if !res.Matched {
		http.NotFound(w, r)
		return
	}

	if err != nil {
		if !errors.Is(err, switchback.ErrBadConfig) {
			h.log.Error("handler failed", &logger.LogContext{
				Data:    map[string]any{"handler": res.Match.Rule.Handler, "pattern": res.Match.Rule.Pattern},
				Error:   err,
				Request: r,
			})
		}

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", http.DetectContentType(buf.Bytes()))
	}

	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("failed writing response", &logger.LogContext{Error: err, Request: r})
	}
}
