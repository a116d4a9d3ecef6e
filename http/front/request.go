package front

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/dispatch"
)

// DefaultMaxBody caps how many bytes of a request body are read.
const DefaultMaxBody int64 = 1 << 20

// NewRequest builds a dispatch.Request from r,
// reading params from the query string and then from the body,
// which may be form encoded or a JSON object.
// Body params win where both set a key.
// Query string, form encoded and JSON params keep the order the client sent them in.
//
// A JSON object is flattened one level:
// nested objects and arrays are set as their raw JSON text.
//
// NewRequest returns an error wrapping switchback.ErrBadFormat
// if the query string or body cannot be read or parsed.
func NewRequest(r *http.Request, maxBody int64) (dispatch.Request, error) {
	query, err := switchback.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return dispatch.Request{}, fmt.Errorf("failed parsing query: %w", err)
	}

	body, err := readBody(r, maxBody)
	if err != nil {
		return dispatch.Request{}, err
	}

	return dispatch.NewParamsRequest(r.Method, r.URL.Path, query, body), nil
}

func readBody(r *http.Request, maxBody int64) (switchback.Params, error) {
	var none switchback.Params
	if r.Body == nil || r.Body == http.NoBody {
		return none, nil
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		b, err := readLimited(r.Body, maxBody)
		if err != nil {
			return none, err
		}

		return flattenJSON(b)

	case "application/x-www-form-urlencoded":
		b, err := readLimited(r.Body, maxBody)
		if err != nil {
			return none, err
		}

		body, err := switchback.ParseQuery(string(b))
		if err != nil {
			return none, fmt.Errorf("failed parsing form: %w", err)
		}

		return body, nil

	case "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
		if err := r.ParseMultipartForm(maxBody); err != nil {
			return none, fmt.Errorf("%w: failed parsing form: %s", switchback.ErrBadFormat, err)
		}

		return switchback.ParamsFromValues(r.MultipartForm.Value), nil
	}

	return none, nil
}

func readLimited(body io.Reader, maxBody int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed reading body: %s", switchback.ErrBadFormat, err)
	}

	if int64(len(b)) > maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", switchback.ErrBadFormat, maxBody)
	}

	return b, nil
}

func flattenJSON(b []byte) (switchback.Params, error) {
	var body switchback.Params
	if len(b) == 0 {
		return body, nil
	}

	if !gjson.ValidBytes(b) {
		return body, fmt.Errorf("%w: body is not valid JSON", switchback.ErrBadFormat)
	}

	res := gjson.ParseBytes(b)
	if !res.IsObject() {
		return body, fmt.Errorf("%w: JSON body must be an object", switchback.ErrBadFormat)
	}

	res.ForEach(func(key, val gjson.Result) bool {
		if val.Type == gjson.Null {
			return true
		}

		body.Set(key.String(), val.String())
		return true
	})

	return body, nil
}
